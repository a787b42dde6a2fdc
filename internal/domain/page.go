package domain

// Page is an offset/limit window derived from the API's from/size pair.
// from is rounded down to the start of the page that contains it.
type Page struct {
	Offset int
	Limit  int
}

// NewPage validates from/size and converts them into a Page.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, NewValidationError("from must be positive or zero")
	}
	if size <= 0 {
		return Page{}, NewValidationError("size must be positive")
	}
	return Page{Offset: (from / size) * size, Limit: size}, nil
}

// Unpaged returns a Page that does not restrict results.
func Unpaged() Page {
	return Page{Offset: 0, Limit: -1}
}
