package payment

// Page is a slice of payments ordered by creation time.
type Page struct {
	Items      []Payment `json:"items"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalItems int       `json:"totalItems"`
}

// TotalPages returns the number of pages of Size items.
func (p Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}

	return (p.TotalItems + p.Size - 1) / p.Size
}
