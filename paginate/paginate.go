// Package paginate computes pagination windows. The current page and the
// per-page size are explicit arguments; extracting them from request context
// is the responsibility of the web-framework boundary, not of this package.
package paginate

// Pages describes a paginated result set.
type Pages struct {
	Total   int // total number of rows
	PerPage int // rows per page
	Current int // current page, 1-based, clamped into range
	Count   int // number of pages
}

// New returns the pagination state for total rows split into perPage-sized
// pages, with current clamped into the valid range. A non-positive perPage
// defaults to 10.
func New(total, perPage, current int) Pages {
	if total < 0 {
		total = 0
	}
	if perPage <= 0 {
		perPage = 10
	}
	count := (total + perPage - 1) / perPage
	if count == 0 {
		count = 1
	}
	if current < 1 {
		current = 1
	}
	if current > count {
		current = count
	}
	return Pages{Total: total, PerPage: perPage, Current: current, Count: count}
}

// Offset returns the row offset of the current page.
func (p Pages) Offset() int {
	return (p.Current - 1) * p.PerPage
}

// Limit returns the (offset, count) pair of the current page.
func (p Pages) Limit() (offset, count int) {
	return p.Offset(), p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p Pages) HasPrev() bool { return p.Current > 1 }

// HasNext reports whether a next page exists.
func (p Pages) HasNext() bool { return p.Current < p.Count }

// Prev returns the previous page number, clamped at the first page.
func (p Pages) Prev() int {
	if p.Current <= 1 {
		return 1
	}
	return p.Current - 1
}

// Next returns the next page number, clamped at the last page.
func (p Pages) Next() int {
	if p.Current >= p.Count {
		return p.Count
	}
	return p.Current + 1
}

// Window returns up to width page numbers centered on the current page, the
// sequence a pagination link bar would render.
func (p Pages) Window(width int) []int {
	if width <= 0 {
		return nil
	}
	if width > p.Count {
		width = p.Count
	}
	start := p.Current - width/2
	if start < 1 {
		start = 1
	}
	if start+width-1 > p.Count {
		start = p.Count - width + 1
	}
	pages := make([]int, width)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}
