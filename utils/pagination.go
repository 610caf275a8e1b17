package utils

const (
	pageSizeDefault = 20
	pageSizeMax     = 100
)

// GetPaginationParams resolves optional offset and limit query values. Missing
// or invalid values fall back to the defaults; the limit is capped.
func GetPaginationParams(offset *int, limit *int) (int, int) {
	finalOffset := 0
	finalLimit := pageSizeDefault

	if offset != nil && *offset >= 0 {
		finalOffset = *offset
	}
	if limit != nil && *limit > 0 {
		finalLimit = min(*limit, pageSizeMax)
	}
	return finalOffset, finalLimit
}

// Page is one window of an in-memory result set.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	Offset     int
	Limit      int
}

// Paginate slices items with the resolved pagination params. Offsets past the
// end yield an empty, non-nil page.
func Paginate[T any](items []T, offset *int, limit *int) Page[T] {
	finalOffset, finalLimit := GetPaginationParams(offset, limit)
	total := len(items)

	start := min(finalOffset, total)
	end := min(start+finalLimit, total)

	window := make([]T, end-start)
	copy(window, items[start:end])
	return Page[T]{
		Items:      window,
		TotalCount: int64(total),
		Offset:     finalOffset,
		Limit:      finalLimit,
	}
}
