package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberPath is the dotted item number of a listed node, e.g. "2.3".
type NumberPath []int

// ParseNumberPath parses a dotted number such as "3" or "3.1.2".
func ParseNumberPath(s string) (NumberPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty item number")
	}
	parts := strings.Split(s, ".")
	out := make(NumberPath, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid item number %q", s)
		}
		out = append(out, n)
	}
	return out, nil
}

// Child returns a new path extended by idx. The receiver is not modified.
func (p NumberPath) Child(idx int) NumberPath {
	out := make(NumberPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, idx)
}

func (p NumberPath) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
