package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"driveqa/internal/chunker"
	"driveqa/internal/domain"
	"driveqa/internal/ranker"
)

// Store is the part of the remote store the answering flow needs.
type Store interface {
	domain.Searcher
	domain.Downloader
}

// AnswerService searches the store for a question, downloads and extracts the hits
// into the session's document set and ranks the sentences against the question.
type AnswerService struct {
	store     Store
	extractor domain.Extractor
	splitter  *chunker.SentenceSplitter
	ranker    *ranker.Ranker
	docs      *domain.DocumentSet
	log       zerolog.Logger
}

// NewAnswerService wires the answering flow. docs is owned by the caller's session
// and accumulates across questions.
func NewAnswerService(store Store, extractor domain.Extractor, r *ranker.Ranker, docs *domain.DocumentSet, log zerolog.Logger) *AnswerService {
	if docs == nil {
		docs = domain.NewDocumentSet()
	}
	return &AnswerService{
		store:     store,
		extractor: extractor,
		splitter:  chunker.NewSentenceSplitter("."),
		ranker:    r,
		docs:      docs,
		log:       log,
	}
}

// AnswerQuery returns the rendered answer text. Only a failed search is an error.
func (s *AnswerService) AnswerQuery(ctx context.Context, query string) (string, error) {
	a, err := s.Answer(ctx, query)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// Answer is AnswerQuery before rendering.
func (s *AnswerService) Answer(ctx context.Context, query string) (domain.Answer, error) {
	hits, err := s.store.Search(ctx, query)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("search %q: %w", query, err)
	}
	if len(hits) == 0 {
		s.log.Info().Str("query", query).Msg("search returned no files")
		return domain.Answer{Status: domain.AnswerNoFiles}, nil
	}

	loaded := 0
	for _, hit := range hits {
		if hit.IsFolder {
			continue
		}
		if s.load(ctx, hit) {
			loaded++
		}
	}
	corpus := s.splitter.BuildCorpus(s.docs)
	s.log.Info().
		Str("query", query).
		Int("hits", len(hits)).
		Int("loaded", loaded).
		Int("documents", s.docs.Len()).
		Int("sentences", len(corpus)).
		Msg("ranking corpus")
	return s.ranker.Answer(query, corpus), nil
}

// load downloads and extracts one hit into the document set. Failures are logged
// and leave the document out.
func (s *AnswerService) load(ctx context.Context, hit domain.ChildMeta) bool {
	data, err := s.store.Download(ctx, domain.ItemRef{ID: hit.ID, Path: hit.Path})
	if err != nil {
		s.log.Warn().Err(err).Str("file", hit.Name).Msg("download failed, skipping")
		return false
	}
	text, err := s.extractor.Extract(data, hit.Name)
	if err != nil {
		s.log.Warn().Err(err).Str("file", hit.Name).Msg("extraction failed, skipping")
		return false
	}
	s.docs.Put(hit.Name, text)
	return true
}

// Documents returns the accumulated document set.
func (s *AnswerService) Documents() *domain.DocumentSet { return s.docs }
