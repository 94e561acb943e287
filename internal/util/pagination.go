package util

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// ClampSkipLimit sanitizes offset/limit pagination parameters.
func ClampSkipLimit(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return skip, limit
}
