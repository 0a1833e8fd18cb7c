package remote

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"driveqa/internal/domain"
)

// LocalStore serves a directory tree as a file store. Item ids are root-relative
// slash separated paths.
type LocalStore struct {
	root string
	fsys fs.FS
	log  zerolog.Logger
}

func NewLocalStore(root string, log zerolog.Logger) *LocalStore {
	return &LocalStore{root: root, fsys: os.DirFS(root), log: log}
}

func (s *LocalStore) ListChildren(ctx context.Context, folder domain.FolderRef) ([]domain.ChildMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail("list", folder.Path, err)
	}
	dir := s.name(folder.ID, folder.Path)
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, s.fail("list", dir, err)
	}
	out := make([]domain.ChildMeta, 0, len(entries))
	for _, e := range entries {
		p := e.Name()
		if dir != "." {
			p = path.Join(dir, e.Name())
		}
		out = append(out, domain.ChildMeta{ID: p, Name: e.Name(), Path: p, IsFolder: e.IsDir()})
	}
	return out, nil
}

// Search walks the tree and returns files and folders whose name contains any
// query word, case-insensitively.
func (s *LocalStore) Search(ctx context.Context, query string) ([]domain.ChildMeta, error) {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil, nil
	}
	var out []domain.ChildMeta
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		name := strings.ToLower(d.Name())
		for _, w := range words {
			if strings.Contains(name, w) {
				out = append(out, domain.ChildMeta{ID: p, Name: d.Name(), Path: p, IsFolder: d.IsDir()})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("search", query, err)
	}
	return out, nil
}

func (s *LocalStore) Download(ctx context.Context, item domain.ItemRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail("read", item.Path, err)
	}
	name := s.name(item.ID, item.Path)
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, s.fail("read", name, err)
	}
	return data, nil
}

func (s *LocalStore) name(id, p string) string {
	if id == "" {
		id = p
	}
	id = strings.Trim(id, "/")
	if id == "" {
		return "."
	}
	return id
}

func (s *LocalStore) fail(op, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %s: %w", op, name, domain.ErrNotFound)
	}
	s.log.Warn().Err(err).Str("op", op).Str("path", name).Msg("local store failure")
	return &domain.FetchError{Op: op, URL: path.Join(s.root, name), Err: err}
}
