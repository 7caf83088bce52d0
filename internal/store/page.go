package store

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage normalises client input: non-positive values fall back to the
// defaults and size is clamped to max (MaxPageSize when max <= 0). Number is
// capped so that Offset cannot overflow; such a page is past any data.
func NewPage(number, size, max int) Page {
	if max <= 0 {
		max = MaxPageSize
	}
	if number < 1 {
		number = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > max {
		size = max
	}
	if number > math.MaxInt/size {
		number = math.MaxInt / size
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
