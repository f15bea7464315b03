package catalog

import (
	"github.com/nikolayk812/voiceshop/internal/domain"
	"golang.org/x/text/currency"
)

// DefaultProducts is the mountain-shop range: wool textiles plus a few everyday goods.
func DefaultProducts() []domain.Product {
	inr := func(amount int64) domain.Money {
		return domain.NewMoney(amount, currency.INR)
	}

	return []domain.Product{
		{
			ID:          "shawl-001",
			Name:        "Yak Wool Shawl",
			Description: "Thick handwoven yak-wool shawl, warm and breathable for high-altitude cold.",
			Price:       inr(2499),
			Category:    "shawl",
			Color:       "natural",
			Sizes:       []string{"One-size"},
		},
		{
			ID:          "blanket-001",
			Name:        "Handloom Mountain Blanket",
			Description: "Heavy woven blanket for cold nights; traditional mountain pattern.",
			Price:       inr(3999),
			Category:    "blanket",
			Color:       "maroon",
			Sizes:       []string{"Queen", "King"},
		},
		{
			ID:          "cap-001",
			Name:        "Hand-spun Wool Cap",
			Description: "Compact wool cap, keeps ears warm on windy passes.",
			Price:       inr(499),
			Category:    "cap",
			Color:       "black",
			Sizes:       []string{"S", "M", "L"},
		},
		{
			ID:          "glove-001",
			Name:        "Insulated Wool Gloves",
			Description: "Wool-lined gloves with durable stitching for hiking and chores.",
			Price:       inr(699),
			Category:    "gloves",
			Color:       "brown",
			Sizes:       []string{"M", "L"},
		},
		{
			ID:          "mug-001",
			Name:        "Stoneware Chai Mug",
			Description: "Hand-glazed ceramic mug perfect for hot tea after a long day.",
			Price:       inr(299),
			Category:    "mug",
			Color:       "blue",
		},
		{
			ID:          "tee-001",
			Name:        "Mountain Cotton Tee",
			Description: "Comfort-fit cotton t-shirt with a small mountain motif.",
			Price:       inr(799),
			Category:    "tshirt",
			Color:       "olive",
			Sizes:       []string{"S", "M", "L", "XL"},
		},
		{
			ID:          "hoodie-001",
			Name:        "Cozy Mountain Hoodie",
			Description: "Fleece-lined pullover hoodie for chilly mornings.",
			Price:       inr(1499),
			Category:    "hoodie",
			Color:       "grey",
			Sizes:       []string{"M", "L", "XL"},
		},
		{
			ID:          "cap-002",
			Name:        "Kids Felt Cap",
			Description: "Soft felted cap sized for small heads.",
			Price:       inr(349),
			Category:    "cap",
			Color:       "red",
			Sizes:       []string{"XS", "S"},
		},
	}
}

// Default builds a Store over DefaultProducts.
func Default() *Store {
	s, err := New(DefaultProducts())
	if err != nil {
		panic(err)
	}
	return s
}
