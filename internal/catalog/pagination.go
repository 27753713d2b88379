package catalog

import "github.com/samber/lo"

const DefaultPageSize = 10

// PageSizes are the page sizes a visitor can pick from.
var PageSizes = []int{5, 6, 7, 8, 9, 10}

func NormalizePageSize(size int) int {
	if lo.Contains(PageSizes, size) {
		return size
	}
	return DefaultPageSize
}

// RecomputePage returns the page that keeps the first item of the old page
// visible after switching from oldSize to newSize.
func RecomputePage(oldPage, oldSize, newSize int) int {
	if oldPage < 1 || oldSize < 1 || newSize < 1 {
		return 1
	}
	return ((oldPage-1)*oldSize)/newSize + 1
}

// DisplayRange is the 1-based item range shown on page.
func DisplayRange(page, size, total int) (start, end int) {
	start = (page-1)*size + 1
	end = min(page*size, total)
	return start, end
}

func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

type Pager struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Prev       int
	Next       int
}

func NewPager(page, size, total int) Pager {
	totalPages := TotalPages(total, size)
	p := Pager{
		Page:       page,
		TotalPages: max(totalPages, 1),
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Prev:       max(page-1, 1),
		Next:       page + 1,
	}
	if !p.HasNext {
		p.Next = page
	}
	return p
}
