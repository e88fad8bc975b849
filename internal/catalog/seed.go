package catalog

import "time"

// seedProducts is written to an empty or unreadable store so the shop never
// starts with a blank catalog.
func seedProducts() []Product {
	d := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}

	return []Product{
		{
			ID:            "1",
			Name:          "Elegant Silk Saree",
			Description:   "Beautiful handwoven silk saree with traditional motifs and gold border. Perfect for weddings and special occasions.",
			Price:         2499,
			OriginalPrice: 3499,
			Images: []string{
				"https://images.pexels.com/photos/8566473/pexels-photo-8566473.jpeg",
				"https://images.pexels.com/photos/8566474/pexels-photo-8566474.jpeg",
			},
			Category:    CategorySarees,
			Subcategory: "Silk Sarees",
			Sizes:       []string{"Free Size"},
			Colors:      []string{"Red", "Gold"},
			InStock:     true,
			Featured:    true,
			Tags:        []string{"wedding", "silk", "traditional", "handwoven"},
			CreatedAt:   d("2024-01-15"),
			UpdatedAt:   d("2024-01-15"),
		},
		{
			ID:            "2",
			Name:          "Designer Anarkali Suit",
			Description:   "Stunning designer Anarkali suit with intricate embroidery and comfortable fit. Includes matching dupatta.",
			Price:         1899,
			OriginalPrice: 2599,
			Images: []string{
				"https://images.pexels.com/photos/8148577/pexels-photo-8148577.jpeg",
				"https://images.pexels.com/photos/8148579/pexels-photo-8148579.jpeg",
			},
			Category:    CategorySuits,
			Subcategory: "Anarkali Suits",
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"Blue", "Silver"},
			InStock:     true,
			Featured:    true,
			Tags:        []string{"designer", "anarkali", "embroidery", "party wear"},
			CreatedAt:   d("2024-01-14"),
			UpdatedAt:   d("2024-01-14"),
		},
		{
			ID:          "3",
			Name:        "Cotton Kurti Set",
			Description: "Comfortable cotton kurti with matching palazzo pants. Perfect for daily wear and casual occasions.",
			Price:       899,
			Images: []string{
				"https://images.pexels.com/photos/8148578/pexels-photo-8148578.jpeg",
			},
			Category:    CategoryKurtis,
			Subcategory: "Cotton Kurtis",
			Sizes:       []string{"S", "M", "L", "XL", "XXL"},
			Colors:      []string{"White", "Pink", "Yellow"},
			InStock:     true,
			Featured:    false,
			Tags:        []string{"cotton", "casual", "comfortable", "daily wear"},
			CreatedAt:   d("2024-01-12"),
			UpdatedAt:   d("2024-01-12"),
		},
		{
			ID:            "4",
			Name:          "Georgette Party Saree",
			Description:   "Lightweight georgette saree with sequin work and a designer blouse piece. Great for receptions and evening parties.",
			Price:         1599,
			OriginalPrice: 2199,
			Images: []string{
				"https://images.pexels.com/photos/8566475/pexels-photo-8566475.jpeg",
			},
			Category:    CategorySarees,
			Subcategory: "Georgette Sarees",
			Sizes:       []string{"Free Size"},
			Colors:      []string{"Teal", "Silver"},
			InStock:     true,
			Featured:    false,
			Tags:        []string{"georgette", "party wear", "sequin"},
			CreatedAt:   d("2024-01-10"),
			UpdatedAt:   d("2024-01-10"),
		},
	}
}
