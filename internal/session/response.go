package session

import (
	"fmt"
	"strings"

	"driveqa/internal/domain"
)

// ResponseKind tells the caller how to render a Response.
type ResponseKind int

const (
	KindListing ResponseKind = iota
	KindAnswer
	KindDownload
	KindMessage
)

// Response is the plain-data result of one Handle call.
type Response struct {
	Kind      ResponseKind
	Listing   *View
	Answer    string
	SavedPath string
	Message   string
}

// View is one page of the current listing.
type View struct {
	FolderPath  string
	Search      string
	Nodes       []domain.Node
	Page        int
	TotalPages  int
	FileCount   int
	FolderCount int
	Empty       bool
}

// Title names the listing, e.g. "Finance/Reports" or "Search: budget".
func (v *View) Title() string {
	if v.Search != "" {
		return "Search: " + v.Search
	}
	if v.FolderPath == "" {
		return "/"
	}
	return v.FolderPath
}

// Summary is the count line shown under a listing.
func (v *View) Summary() string {
	if v.Empty {
		if v.Search != "" {
			return "No files matched."
		}
		return "This folder is empty."
	}
	return fmt.Sprintf("%d files, %d folders - page %d of %d", v.FileCount, v.FolderCount, v.Page, v.TotalPages)
}

// Text renders the response as plain text, one listing row per line indented by depth.
func (r Response) Text() string {
	var b strings.Builder
	if r.Message != "" {
		b.WriteString(r.Message)
		b.WriteString("\n")
	}
	switch r.Kind {
	case KindAnswer:
		b.WriteString(r.Answer)
		b.WriteString("\n")
	case KindListing:
		if r.Listing == nil {
			break
		}
		fmt.Fprintf(&b, "%s\n", r.Listing.Title())
		for _, n := range r.Listing.Nodes {
			b.WriteString(strings.Repeat("  ", n.Depth()-1))
			b.WriteString(n.DisplayLabel)
			b.WriteString("\n")
		}
		b.WriteString(r.Listing.Summary())
		b.WriteString("\n")
	}
	return b.String()
}
