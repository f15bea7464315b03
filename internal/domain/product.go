package domain

type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Color       string
	Price       Money
	Sizes       []string
}

// Sized reports whether the product is offered in sizes at all.
func (p Product) Sized() bool {
	return len(p.Sizes) > 0
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
