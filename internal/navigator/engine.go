package navigator

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"driveqa/internal/domain"
	"driveqa/internal/nodecache"
)

// Engine lists remote folders on demand, numbers the children depth-first and binds
// the numbers in the session's node cache.
type Engine struct {
	lister domain.Lister
	cache  *nodecache.Cache
	log    zerolog.Logger
}

func NewEngine(lister domain.Lister, cache *nodecache.Cache, log zerolog.Logger) *Engine {
	return &Engine{lister: lister, cache: cache, log: log}
}

// ListChildrenAt lists the direct children of folderPath ("" is the root). Every
// listed folder whose path equals expandPath, or is an ancestor of it, is expanded
// inline: its children follow it with its number as prefix. On success the listing
// replaces all cache bindings; on error the cache is left as it was.
func (e *Engine) ListChildrenAt(ctx context.Context, folderPath, expandPath string) (domain.ListingResult, error) {
	return e.ListFolder(ctx, domain.FolderRef{Path: folderPath}, expandPath)
}

// ListFolder is ListChildrenAt for a folder addressed by remote id when known, so
// same-named folders are told apart.
func (e *Engine) ListFolder(ctx context.Context, folder domain.FolderRef, expandPath string) (domain.ListingResult, error) {
	folderPath := normalize(folder.Path)
	expandPath = normalize(expandPath)

	var res domain.ListingResult
	err := e.list(ctx, domain.FolderRef{ID: folder.ID, Path: folderPath}, folderPath, nil, expandPath, &res)
	if err != nil {
		return domain.ListingResult{}, fmt.Errorf("list %q: %w", displayPath(folderPath), err)
	}
	res.Empty = len(res.Nodes) == 0
	e.cache.Replace(res)
	e.log.Debug().
		Str("folder", displayPath(folderPath)).
		Str("expand", expandPath).
		Int("files", res.FileCount).
		Int("folders", res.FolderCount).
		Msg("listed folder")
	return res, nil
}

func (e *Engine) list(ctx context.Context, ref domain.FolderRef, parentPath string, prefix domain.NumberPath, expandPath string, res *domain.ListingResult) error {
	children, err := e.lister.ListChildren(ctx, ref)
	if err != nil {
		return err
	}
	for i, child := range children {
		num := prefix.Child(i + 1)
		full := childPath(parentPath, child)
		kind := domain.KindFile
		if child.IsFolder {
			kind = domain.KindFolder
			res.FolderCount++
		} else {
			res.FileCount++
		}
		res.Nodes = append(res.Nodes, domain.Node{
			Number:       num,
			FullPath:     full,
			DisplayLabel: Label(num, child.Name, kind),
			Kind:         kind,
			RemoteID:     child.ID,
		})
		if child.IsFolder && expands(full, expandPath) {
			if err := e.list(ctx, domain.FolderRef{ID: child.ID, Path: full}, full, num, expandPath, res); err != nil {
				return err
			}
		}
	}
	return nil
}

// BindFlat numbers items 1..n without expansion, as for search results, and
// replaces the cache bindings with them.
func (e *Engine) BindFlat(items []domain.ChildMeta) domain.ListingResult {
	var res domain.ListingResult
	for i, it := range items {
		num := domain.NumberPath{i + 1}
		kind := domain.KindFile
		if it.IsFolder {
			kind = domain.KindFolder
			res.FolderCount++
		} else {
			res.FileCount++
		}
		res.Nodes = append(res.Nodes, domain.Node{
			Number:       num,
			FullPath:     childPath("", it),
			DisplayLabel: Label(num, it.Name, kind),
			Kind:         kind,
			RemoteID:     it.ID,
		})
	}
	res.Empty = len(res.Nodes) == 0
	e.cache.Replace(res)
	return res
}

// Resolve returns the node bound to number in the most recent listing.
func (e *Engine) Resolve(number domain.NumberPath) (domain.Node, error) {
	n, ok := e.cache.Lookup(number)
	if !ok {
		return domain.Node{}, fmt.Errorf("item %s: %w", number, domain.ErrNotFound)
	}
	return n, nil
}

// Enter returns the folder path bound to number. Files yield ErrWrongKind and
// unknown numbers ErrNotFound.
func (e *Engine) Enter(number domain.NumberPath) (string, error) {
	n, err := e.Resolve(number)
	if err != nil {
		return "", err
	}
	if !n.IsFolder() {
		return "", fmt.Errorf("item %s is a file: %w", number, domain.ErrWrongKind)
	}
	return n.FullPath, nil
}

// GoBack strips the last segment of folderPath. The root and its direct children
// both return "".
func GoBack(folderPath string) string {
	folderPath = normalize(folderPath)
	i := strings.LastIndex(folderPath, "/")
	if i < 0 {
		return ""
	}
	return folderPath[:i]
}

// Label renders the display label of a listed item, e.g. "2.3. Reports (Folder)".
func Label(num domain.NumberPath, name string, kind domain.Kind) string {
	return fmt.Sprintf("%s. %s (%s)", num, name, kind)
}

func expands(folder, expandPath string) bool {
	if expandPath == "" {
		return false
	}
	return folder == expandPath || strings.HasPrefix(expandPath, folder+"/")
}

func childPath(parent string, child domain.ChildMeta) string {
	if p := normalize(child.Path); p != "" {
		return p
	}
	if parent == "" {
		return child.Name
	}
	return path.Join(parent, child.Name)
}

func normalize(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
