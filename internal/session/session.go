package session

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"driveqa/internal/domain"
	"driveqa/internal/navigator"
	"driveqa/internal/nodecache"
	"driveqa/internal/ranker"
	"driveqa/internal/service"
)

// View modes of the browse listing.
const (
	ViewFolder = "folder"
	ViewTree   = "tree"
)

const defaultPageSize = 20

// Config holds the per-session settings.
type Config struct {
	PageSize    int
	View        string
	DownloadDir string
}

// Session is the state of one user: cursor, node cache and accumulated documents.
// Handle calls are serialized; separate sessions share nothing.
type Session struct {
	mu sync.Mutex

	id      string
	cfg     Config
	store   domain.Store
	cache   *nodecache.Cache
	engine  *navigator.Engine
	answers *service.AnswerService
	docs    *domain.DocumentSet
	log     zerolog.Logger

	cursor  domain.Cursor
	listing domain.ListingResult
	search  string // query of the shown search listing, empty when browsing
}

func New(store domain.Store, extractor domain.Extractor, r *ranker.Ranker, cfg Config, log zerolog.Logger) *Session {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.View == "" {
		cfg.View = ViewFolder
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "downloads"
	}
	id := uuid.NewString()
	log = log.With().Str("session", id).Logger()
	cache := nodecache.New()
	docs := domain.NewDocumentSet()
	return &Session{
		id:      id,
		cfg:     cfg,
		store:   store,
		cache:   cache,
		engine:  navigator.NewEngine(store, cache, log),
		answers: service.NewAnswerService(store, extractor, r, docs, log),
		docs:    docs,
		log:     log,
		cursor:  domain.Cursor{Page: 1},
	}
}

func (s *Session) ID() string { return s.id }

// Cursor returns the current browsing position.
func (s *Session) Cursor() domain.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Open lists the root folder.
func (s *Session) Open(ctx context.Context) (Response, error) {
	return s.Handle(ctx, CommandInput(CmdRefresh))
}

// Handle runs one user action. An error leaves the session state as it was.
func (s *Session) Handle(ctx context.Context, in Input) (Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug().Stringer("kind", in.Kind).Str("text", in.Text).Str("command", string(in.Command)).Msg("handle input")
	switch in.Kind {
	case Select:
		return s.selectItem(ctx, in.Number)
	case Search:
		return s.searchFiles(ctx, in.Text)
	case Question:
		return s.ask(ctx, in.Text)
	case Command:
		return s.command(ctx, in.Command)
	}
	return Response{}, fmt.Errorf("unknown input kind %s", in.Kind)
}

func (s *Session) selectItem(ctx context.Context, number domain.NumberPath) (Response, error) {
	if len(number) == 0 {
		return Response{}, fmt.Errorf("no item number: %w", domain.ErrNotFound)
	}
	node, err := s.engine.Resolve(number)
	if err != nil {
		return Response{}, err
	}
	if !node.IsFolder() {
		return s.download(ctx, node)
	}
	folder, err := s.engine.Enter(number)
	if err != nil {
		return Response{}, err
	}
	return s.browse(ctx, domain.Cursor{FolderPath: folder, FolderID: node.RemoteID, Page: 1})
}

func (s *Session) searchFiles(ctx context.Context, query string) (Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Response{Kind: KindMessage, Message: "Type something to search for."}, nil
	}
	hits, err := s.store.Search(ctx, query)
	if err != nil {
		return Response{}, fmt.Errorf("search %q: %w", query, err)
	}
	s.listing = s.engine.BindFlat(hits)
	s.search = query
	s.cursor.Page = 1
	s.log.Info().Str("query", query).Int("hits", len(hits)).Msg("search listing")
	return s.listingResponse(), nil
}

func (s *Session) ask(ctx context.Context, question string) (Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Response{Kind: KindMessage, Message: "Type a question to ask."}, nil
	}
	text, err := s.answers.AnswerQuery(ctx, question)
	if err != nil {
		return Response{}, err
	}
	return Response{Kind: KindAnswer, Answer: text}, nil
}

func (s *Session) command(ctx context.Context, name CommandName) (Response, error) {
	switch name {
	case CmdNextPage, CmdPrevPage:
		total := navigator.TotalPages(s.listing.Len(), s.cfg.PageSize)
		page := s.cursor.Page + 1
		if name == CmdPrevPage {
			page = s.cursor.Page - 1
		}
		s.cursor.Page = navigator.ClampPage(page, total)
		return s.listingResponse(), nil
	case CmdBack:
		if s.search != "" {
			return s.browse(ctx, domain.Cursor{FolderPath: s.cursor.FolderPath, FolderID: s.cursor.FolderID, Page: 1})
		}
		if s.cursor.FolderPath == "" {
			resp := s.listingResponse()
			resp.Message = "Already at the root folder."
			return resp, nil
		}
		return s.browse(ctx, domain.Cursor{FolderPath: navigator.GoBack(s.cursor.FolderPath), Page: 1})
	case CmdRefresh:
		return s.browse(ctx, s.cursor)
	case CmdClear:
		resp, err := s.browse(ctx, domain.Cursor{Page: 1})
		if err != nil {
			return Response{}, err
		}
		s.docs.Reset()
		s.log.Info().Msg("session cleared")
		resp.Message = "Conversation cleared."
		return resp, nil
	}
	return Response{}, fmt.Errorf("unknown command %q", name)
}

// browse lists the folder of next and moves the cursor there on success.
func (s *Session) browse(ctx context.Context, next domain.Cursor) (Response, error) {
	folder, expand := next.Folder(), ""
	if s.cfg.View == ViewTree {
		folder, expand = domain.FolderRef{}, next.FolderPath
	}
	listing, err := s.engine.ListFolder(ctx, folder, expand)
	if err != nil {
		return Response{}, err
	}
	s.listing = listing
	s.search = ""
	next.Page = navigator.ClampPage(next.Page, navigator.TotalPages(listing.Len(), s.cfg.PageSize))
	s.cursor = next
	return s.listingResponse(), nil
}

func (s *Session) download(ctx context.Context, node domain.Node) (Response, error) {
	data, err := s.store.Download(ctx, domain.ItemRef{ID: node.RemoteID, Path: node.FullPath})
	if err != nil {
		return Response{}, fmt.Errorf("download %s: %w", node.FullPath, err)
	}
	if err := os.MkdirAll(s.cfg.DownloadDir, 0o755); err != nil {
		return Response{}, err
	}
	dst := filepath.Join(s.cfg.DownloadDir, path.Base(node.FullPath))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return Response{}, err
	}
	s.log.Info().Str("file", node.FullPath).Str("saved", dst).Int("bytes", len(data)).Msg("downloaded file")
	return Response{
		Kind:      KindDownload,
		SavedPath: dst,
		Message:   fmt.Sprintf("Downloaded '%s' to %s.", path.Base(node.FullPath), dst),
	}, nil
}

func (s *Session) listingResponse() Response {
	window, total := navigator.Paginate(s.listing.Nodes, s.cursor.Page, s.cfg.PageSize)
	return Response{
		Kind: KindListing,
		Listing: &View{
			FolderPath:  s.cursor.FolderPath,
			Search:      s.search,
			Nodes:       window,
			Page:        s.cursor.Page,
			TotalPages:  total,
			FileCount:   s.listing.FileCount,
			FolderCount: s.listing.FolderCount,
			Empty:       s.listing.Empty,
		},
	}
}
