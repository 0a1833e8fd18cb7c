package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"driveqa/internal/domain"
	"driveqa/internal/extractor"
	"driveqa/internal/ranker"
)

type fakeStore struct {
	hits      []domain.ChildMeta
	files     map[string][]byte // keyed by id
	searchErr error
	downloads []domain.ItemRef
}

func (f *fakeStore) Search(context.Context, string) ([]domain.ChildMeta, error) {
	return f.hits, f.searchErr
}

func (f *fakeStore) Download(_ context.Context, ref domain.ItemRef) ([]byte, error) {
	f.downloads = append(f.downloads, ref)
	data, ok := f.files[ref.ID]
	if !ok {
		return nil, &domain.FetchError{Op: "GET", URL: ref.ID, Status: 404}
	}
	return data, nil
}

// countingExtractor records how often it is called.
type countingExtractor struct {
	inner domain.Extractor
	calls int
}

func (c *countingExtractor) Extract(data []byte, name string) (string, error) {
	c.calls++
	return c.inner.Extract(data, name)
}

func newService(t *testing.T, store Store, docs *domain.DocumentSet) (*AnswerService, *countingExtractor) {
	t.Helper()
	r, err := ranker.New(ranker.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	ex := &countingExtractor{inner: extractor.New(zerolog.Nop())}
	return NewAnswerService(store, ex, r, docs, zerolog.Nop()), ex
}

func TestAnswerQueryNoFiles(t *testing.T) {
	store := &fakeStore{}
	s, ex := newService(t, store, nil)
	got, err := s.AnswerQuery(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if got != domain.MsgNoRelevantFiles {
		t.Errorf("got %q", got)
	}
	if ex.calls != 0 || len(store.downloads) != 0 {
		t.Error("nothing should be downloaded or extracted")
	}
}

func TestAnswerQueryFindsSentence(t *testing.T) {
	store := &fakeStore{
		hits: []domain.ChildMeta{{ID: "1", Name: "a.txt", Path: "Docs/a.txt"}},
		files: map[string][]byte{
			"1": []byte("The quick brown fox jumps over the lazy dog. Short."),
		},
	}
	s, _ := newService(t, store, nil)
	got, err := s.AnswerQuery(context.Background(), "quick brown fox jumps")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Source: a.txt\nThe quick brown fox jumps over the lazy dog.") {
		t.Errorf("unexpected answer:\n%s", got)
	}
	if store.downloads[0] != (domain.ItemRef{ID: "1", Path: "Docs/a.txt"}) {
		t.Errorf("download ref = %+v", store.downloads[0])
	}
}

func TestAnswerQueryFailuresAreNotFatal(t *testing.T) {
	store := &fakeStore{
		hits: []domain.ChildMeta{
			{ID: "missing", Name: "gone.txt"},
			{ID: "bad", Name: "broken.docx"},
			{ID: "dir", Name: "Folder", IsFolder: true},
			{ID: "ok", Name: "good.txt"},
		},
		files: map[string][]byte{
			"bad": []byte("not a zip"),
			"ok":  []byte("Remote employees may claim a home office allowance each year."),
		},
	}
	docs := domain.NewDocumentSet()
	s, _ := newService(t, store, docs)
	got, err := s.AnswerQuery(context.Background(), "home office allowance")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Source: good.txt") {
		t.Errorf("expected good.txt in answer:\n%s", got)
	}
	if names := strings.Join(docs.Names(), ","); names != "good.txt" {
		t.Errorf("documents = %s", names)
	}
	for _, d := range store.downloads {
		if d.ID == "dir" {
			t.Error("folders must not be downloaded")
		}
	}
}

func TestAnswerQueryLastWriteWins(t *testing.T) {
	store := &fakeStore{
		hits: []domain.ChildMeta{
			{ID: "1", Name: "notes.txt"},
			{ID: "2", Name: "notes.txt"},
		},
		files: map[string][]byte{
			"1": []byte("first version"),
			"2": []byte("second version"),
		},
	}
	docs := domain.NewDocumentSet()
	s, _ := newService(t, store, docs)
	if _, err := s.AnswerQuery(context.Background(), "version"); err != nil {
		t.Fatal(err)
	}
	if text, _ := docs.Get("notes.txt"); text != "second version" {
		t.Errorf("notes.txt = %q, want second version", text)
	}
	if docs.Len() != 1 {
		t.Errorf("Len = %d", docs.Len())
	}
}

func TestAnswerQuerySearchError(t *testing.T) {
	store := &fakeStore{searchErr: &domain.FetchError{Op: "GET", URL: "x", Status: 500}}
	s, _ := newService(t, store, nil)
	if _, err := s.AnswerQuery(context.Background(), "q"); !errors.Is(err, domain.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestAnswerQueryEmptyContent(t *testing.T) {
	store := &fakeStore{
		hits:  []domain.ChildMeta{{ID: "1", Name: "image.png"}},
		files: map[string][]byte{"1": {0x89, 0x50}},
	}
	s, _ := newService(t, store, nil)
	got, err := s.AnswerQuery(context.Background(), "picture")
	if err != nil {
		t.Fatal(err)
	}
	if got != domain.MsgNoContent {
		t.Errorf("got %q, want no content message", got)
	}
}
