package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseNumberPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"3", "3", false},
		{" 2.3 ", "2.3", false},
		{"1.10.2", "1.10.2", false},
		{"", "", true},
		{"0", "", true},
		{"2.", "", true},
		{"a.1", "", true},
		{"-1", "", true},
	}
	for _, tt := range tests {
		got, err := ParseNumberPath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNumberPath(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.String() != tt.want {
			t.Errorf("ParseNumberPath(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestNumberPathChildDoesNotAlias(t *testing.T) {
	parent := NumberPath{3}
	a := parent.Child(1)
	b := parent.Child(2)
	if a.String() != "3.1" || b.String() != "3.2" {
		t.Fatalf("got %s and %s", a, b)
	}
	if parent.String() != "3" {
		t.Fatalf("parent modified: %s", parent)
	}
}

func TestDocumentSetLastWriteWinsKeepsOrder(t *testing.T) {
	d := NewDocumentSet()
	d.Put("a.txt", "one")
	d.Put("b.txt", "two")
	d.Put("a.txt", "three")

	if got := strings.Join(d.Names(), ","); got != "a.txt,b.txt" {
		t.Errorf("Names() = %s", got)
	}
	if v, _ := d.Get("a.txt"); v != "three" {
		t.Errorf("Get(a.txt) = %q, want three", v)
	}
	d.Reset()
	if d.Len() != 0 {
		t.Errorf("Len after Reset = %d", d.Len())
	}
}

func TestFetchErrorMatchesSentinel(t *testing.T) {
	var err error = &FetchError{Op: "GET", URL: "http://x", Status: 503}
	wrapped := fmt.Errorf("list: %w", err)
	if !errors.Is(wrapped, ErrFetchFailed) {
		t.Error("FetchError should match ErrFetchFailed")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("FetchError should not match ErrNotFound")
	}
	if IsTimeout(wrapped) {
		t.Error("status error is not a timeout")
	}
}

func TestAnswerString(t *testing.T) {
	a := Answer{Status: AnswerFound, Groups: []AnswerGroup{
		{Document: "a.txt", Text: "First."},
		{Document: "b.txt", Text: "Second."},
	}}
	want := AnswerHeader + "\n\nSource: a.txt\nFirst.\n\nSource: b.txt\nSecond."
	if got := a.String(); got != want {
		t.Errorf("String() = %q\nwant %q", got, want)
	}
	if got := (Answer{Status: AnswerNoFiles}).String(); got != MsgNoRelevantFiles {
		t.Errorf("no files message = %q", got)
	}
}
