package navigator

import (
	"reflect"
	"testing"

	"driveqa/internal/domain"
)

func makeNodes(n int) []domain.Node {
	out := make([]domain.Node, n)
	for i := range out {
		out[i] = domain.Node{Number: domain.NumberPath{i + 1}}
	}
	return out
}

func TestPaginate(t *testing.T) {
	nodes := makeNodes(45)
	tests := []struct {
		page      int
		wantLen   int
		wantFirst string
	}{
		{1, 20, "1"},
		{2, 20, "21"},
		{3, 5, "41"},
	}
	for _, tt := range tests {
		window, total := Paginate(nodes, tt.page, 20)
		if total != 3 {
			t.Errorf("page %d: total = %d, want 3", tt.page, total)
		}
		if len(window) != tt.wantLen || window[0].Number.String() != tt.wantFirst {
			t.Errorf("page %d: len=%d first=%s", tt.page, len(window), window[0].Number)
		}
	}
}

func TestPaginateIsIdempotent(t *testing.T) {
	nodes := makeNodes(45)
	a, ta := Paginate(nodes, 2, 20)
	b, tb := Paginate(nodes, 2, 20)
	if ta != tb || !reflect.DeepEqual(a, b) {
		t.Error("Paginate should return identical output for identical input")
	}
}

func TestPaginateEmpty(t *testing.T) {
	window, total := Paginate(nil, 1, 20)
	if len(window) != 0 || total != 1 {
		t.Errorf("got len=%d total=%d, want 0 and 1", len(window), total)
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct{ page, total, want int }{
		{0, 3, 1},
		{-4, 3, 1},
		{2, 3, 2},
		{7, 3, 3},
		{1, 1, 1},
	}
	for _, tt := range tests {
		if got := ClampPage(tt.page, tt.total); got != tt.want {
			t.Errorf("ClampPage(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}
