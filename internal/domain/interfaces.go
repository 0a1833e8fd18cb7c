package domain

import "context"

// Kind distinguishes files from folders in the remote store.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "Folder"
	}
	return "File"
}

// ChildMeta is the metadata the remote store returns for one listed or searched item.
type ChildMeta struct {
	ID       string
	Name     string
	Path     string // root-relative path, empty when the store does not report one
	IsFolder bool
}

// FolderRef addresses a folder by remote id, falling back to its root-relative path.
// The zero value is the root.
type FolderRef struct {
	ID   string
	Path string
}

// IsRoot reports whether the reference points at the store root.
func (f FolderRef) IsRoot() bool { return f.ID == "" && f.Path == "" }

// ItemRef addresses a file by remote id, falling back to its root-relative path.
type ItemRef struct {
	ID   string
	Path string
}

// Node is one numbered entry of a listing.
type Node struct {
	Number       NumberPath
	FullPath     string
	DisplayLabel string
	Kind         Kind
	RemoteID     string
}

// Depth is the depth of the node below the listing root (root children are 1).
func (n Node) Depth() int { return len(n.Number) }

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool { return n.Kind == KindFolder }

// ListingResult is an immutable, depth-first numbered listing.
// Empty is the sentinel for a folder with no children; it is not an error.
type ListingResult struct {
	Nodes       []Node
	FileCount   int
	FolderCount int
	Empty       bool
}

// Len returns the number of nodes in the listing.
func (l ListingResult) Len() int { return len(l.Nodes) }

// Cursor is the browsing position of a session. FolderID is the remote id of the
// folder when it was entered from a listing, empty for the root or a typed path.
type Cursor struct {
	FolderPath string
	FolderID   string
	Page       int
}

// Folder returns the reference used to list the cursor folder.
func (c Cursor) Folder() FolderRef { return FolderRef{ID: c.FolderID, Path: c.FolderPath} }

// SentenceUnit is one sentence of extracted text tagged with its source document.
type SentenceUnit struct {
	Text           string
	SourceDocument string
}

// Lister lists the direct children of a folder.
type Lister interface {
	ListChildren(ctx context.Context, folder FolderRef) ([]ChildMeta, error)
}

// Searcher finds items matching a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]ChildMeta, error)
}

// Downloader fetches the raw bytes of a file.
type Downloader interface {
	Download(ctx context.Context, item ItemRef) ([]byte, error)
}

// Store is the remote hierarchical file store.
type Store interface {
	Lister
	Searcher
	Downloader
}

// Extractor converts raw document bytes into plain text.
type Extractor interface {
	Extract(data []byte, fileName string) (string, error)
}
