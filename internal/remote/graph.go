package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"driveqa/internal/domain"
)

const DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

// GraphConfig addresses a document library through the Microsoft Graph drive API.
type GraphConfig struct {
	BaseURL string
	// SiteID selects /sites/{id}/drive; empty uses /me/drive.
	SiteID string
	// Host is the SharePoint hostname, e.g. contoso.sharepoint.com. It lets
	// ResolveSite address a site by its server-relative name.
	Host string
}

// GraphStore implements domain.Store on top of the Graph drive endpoints.
type GraphStore struct {
	fetch *Fetcher
	base  string
	host  string
	drive string
	log   zerolog.Logger
}

// Site is a SharePoint site whose default document library can be browsed.
type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

func (s Site) String() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

func NewGraphStore(cfg GraphConfig, fetch *Fetcher, log zerolog.Logger) *GraphStore {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultGraphBaseURL
	}
	drive := base + "/me/drive"
	if cfg.SiteID != "" {
		drive = base + "/sites/" + url.PathEscape(cfg.SiteID) + "/drive"
	}
	return &GraphStore{fetch: fetch, base: base, host: cfg.Host, drive: drive, log: log}
}

type driveItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Folder          *struct{} `json:"folder,omitempty"`
	File            *struct{} `json:"file,omitempty"`
	ParentReference struct {
		Path string `json:"path"`
	} `json:"parentReference"`
}

type itemPage struct {
	Value    []driveItem `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// ListChildren lists a folder by id when known, otherwise by path. Paged responses
// are followed until the last page.
func (s *GraphStore) ListChildren(ctx context.Context, folder domain.FolderRef) ([]domain.ChildMeta, error) {
	var u string
	switch {
	case folder.ID != "":
		u = s.drive + "/items/" + url.PathEscape(folder.ID) + "/children"
	case folder.Path != "":
		u = s.drive + "/root:/" + escapePath(folder.Path) + ":/children"
	default:
		u = s.drive + "/root/children"
	}
	return s.collect(ctx, u)
}

// Search runs the drive search. Matching folders are returned too, flagged IsFolder.
func (s *GraphStore) Search(ctx context.Context, query string) ([]domain.ChildMeta, error) {
	q := strings.ReplaceAll(query, "'", "''")
	return s.collect(ctx, s.drive+"/root/search(q='"+url.PathEscape(q)+"')")
}

// Sites lists the sites visible to the signed-in account.
func (s *GraphStore) Sites(ctx context.Context) ([]Site, error) {
	var out []Site
	u := s.base + "/sites?search=*"
	for u != "" {
		_, body, err := s.fetch.AuthorizedFetch(ctx, u)
		if err != nil {
			return nil, err
		}
		var page struct {
			Value    []Site `json:"value"`
			NextLink string `json:"@odata.nextLink"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &domain.FetchError{Op: "decode", URL: u, Err: err}
		}
		out = append(out, page.Value...)
		u = page.NextLink
	}
	s.log.Debug().Int("sites", len(out)).Msg("graph sites")
	return out, nil
}

// ResolveSite finds a site by name. With a host configured the site is addressed
// directly as /sites/{host}:/sites/{name}; otherwise the site search is scanned for
// a case-insensitive match on name or display name.
func (s *GraphStore) ResolveSite(ctx context.Context, name string) (Site, error) {
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return Site{}, fmt.Errorf("resolve site: empty name: %w", domain.ErrNotFound)
	}
	if s.host != "" {
		u := s.base + "/sites/" + url.PathEscape(s.host) + ":/sites/" + escapePath(name)
		status, body, err := s.fetch.AuthorizedFetch(ctx, u)
		if err != nil {
			if status == http.StatusNotFound {
				return Site{}, fmt.Errorf("site %q on %s: %w: %w", name, s.host, domain.ErrNotFound, err)
			}
			return Site{}, err
		}
		var site Site
		if err := json.Unmarshal(body, &site); err != nil {
			return Site{}, &domain.FetchError{Op: "decode", URL: u, Err: err}
		}
		return site, nil
	}
	sites, err := s.Sites(ctx)
	if err != nil {
		return Site{}, err
	}
	for _, site := range sites {
		if strings.EqualFold(site.Name, name) || strings.EqualFold(site.DisplayName, name) {
			return site, nil
		}
	}
	return Site{}, fmt.Errorf("site %q: %w", name, domain.ErrNotFound)
}

// Download returns the content of a file by id when known, otherwise by path.
func (s *GraphStore) Download(ctx context.Context, item domain.ItemRef) ([]byte, error) {
	var u string
	switch {
	case item.ID != "":
		u = s.drive + "/items/" + url.PathEscape(item.ID) + "/content"
	case item.Path != "":
		u = s.drive + "/root:/" + escapePath(item.Path) + ":/content"
	default:
		return nil, fmt.Errorf("download: empty item reference: %w", domain.ErrNotFound)
	}
	_, body, err := s.fetch.AuthorizedFetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *GraphStore) collect(ctx context.Context, u string) ([]domain.ChildMeta, error) {
	var out []domain.ChildMeta
	for u != "" {
		_, body, err := s.fetch.AuthorizedFetch(ctx, u)
		if err != nil {
			return nil, err
		}
		var page itemPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &domain.FetchError{Op: "decode", URL: u, Err: err}
		}
		for _, it := range page.Value {
			out = append(out, it.meta())
		}
		u = page.NextLink
	}
	s.log.Debug().Int("items", len(out)).Msg("graph listing")
	return out, nil
}

func (it driveItem) meta() domain.ChildMeta {
	return domain.ChildMeta{
		ID:       it.ID,
		Name:     it.Name,
		Path:     itemPath(it.ParentReference.Path, it.Name),
		IsFolder: it.Folder != nil,
	}
}

// itemPath turns a parent reference such as "/drive/root:/Finance/Reports" into the
// root-relative path of the named child.
func itemPath(parentRef, name string) string {
	if parentRef == "" {
		return ""
	}
	parent := parentRef
	if i := strings.Index(parent, "root:"); i >= 0 {
		parent = parent[i+len("root:"):]
	}
	if p, err := url.PathUnescape(parent); err == nil {
		parent = p
	}
	parent = strings.Trim(parent, "/")
	if parent == "" {
		return name
	}
	return path.Join(parent, name)
}

func escapePath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
