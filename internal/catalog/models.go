package catalog

type Size struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Description string  `bson:"description" json:"description"`
	Stock       int     `bson:"stock" json:"stock"`
}

type Product struct {
	ID            int      `bson:"_id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Slug          string   `bson:"slug" json:"slug"`
	Description   string   `bson:"description" json:"description"`
	Image         string   `bson:"image" json:"image"`
	Price         float64  `bson:"price" json:"price"`
	Category      string   `bson:"category,omitempty" json:"category,omitempty"`
	Ingredients   []string `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	NutritionInfo string   `bson:"nutritionInfo,omitempty" json:"nutritionInfo,omitempty"`
	Rating        float64  `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount   int      `bson:"reviewCount,omitempty" json:"reviewCount,omitempty"`
	InStock       bool     `bson:"inStock" json:"inStock"`
	Sizes         []Size   `bson:"sizes" json:"sizes"`
}

// Size returns the size with the given id.
func (p *Product) Size(id string) (Size, bool) {
	for _, s := range p.Sizes {
		if s.ID == id {
			return s, true
		}
	}
	return Size{}, false
}

func standardSizes(small, regular, large float64) []Size {
	return []Size{
		{ID: "small", Name: "Small (8oz)", Price: small, Description: "Small size", Stock: 10},
		{ID: "regular", Name: "Regular (16oz)", Price: regular, Description: "Regular size", Stock: 10},
		{ID: "large", Name: "Large (32oz)", Price: large, Description: "Large size", Stock: 5},
	}
}

// DefaultProducts is the catalog written by the seed command.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Original Banana Pudding",
			Slug:        "original",
			Description: "Layers of vanilla custard, fresh bananas and vanilla wafers, topped with whipped cream.",
			Image:       "/images/original.jpg",
			Price:       8.00,
			Category:    "pudding",
			Ingredients: []string{"bananas", "vanilla wafers", "vanilla custard", "whipped cream"},
			InStock:     true,
			Sizes:       standardSizes(6.00, 8.00, 14.00),
		},
		{
			ID:          2,
			Name:        "Bananas Foster Pudding",
			Slug:        "bananas-foster",
			Description: "Caramelized bananas in brown sugar and cinnamon folded into our classic custard.",
			Image:       "/images/bananas-foster.jpg",
			Price:       10.00,
			Category:    "pudding",
			Ingredients: []string{"bananas", "brown sugar", "cinnamon", "vanilla custard"},
			InStock:     true,
			Sizes:       standardSizes(8.00, 10.00, 18.00),
		},
		{
			ID:          3,
			Name:        "Mississippi Mud Pudding",
			Slug:        "mississippi-mud",
			Description: "Chocolate pudding with brownie pieces, marshmallow and pecans.",
			Image:       "/images/mississippi-mud.jpg",
			Price:       10.00,
			Category:    "pudding",
			Ingredients: []string{"chocolate", "brownie", "marshmallow", "pecans"},
			InStock:     true,
			Sizes:       standardSizes(8.00, 10.00, 18.00),
		},
	}
}
