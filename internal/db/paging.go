package db

// PageOffset returns the OFFSET for a 1-based page, or false when the page
// starts at or past total. The bound is checked before multiplying so huge
// page numbers cannot overflow into a negative offset.
func PageOffset(page, pageSize, total int) (int, bool) {
	if page < 1 || pageSize < 1 || total <= 0 {
		return 0, false
	}
	pages := (total + pageSize - 1) / pageSize
	if page > pages {
		return 0, false
	}
	return (page - 1) * pageSize, true
}
