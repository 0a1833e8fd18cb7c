package navigator

import "driveqa/internal/domain"

// TotalPages returns ceil(n/pageSize), at least 1.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 || n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage moves page into [1, total].
func ClampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if total >= 1 && page > total {
		return total
	}
	return page
}

// Paginate returns the window of nodes shown on page and the total page count.
// page must already be clamped with ClampPage.
func Paginate(nodes []domain.Node, page, pageSize int) ([]domain.Node, int) {
	total := TotalPages(len(nodes), pageSize)
	if pageSize <= 0 {
		return nodes, total
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(nodes) {
		end = len(nodes)
	}
	return nodes[start:end], total
}
