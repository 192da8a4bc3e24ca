package utils

import "wardrobeAPI/internal/types/wardrobe"

// SampleWardrobe is the starter wardrobe new users can load to try the app.
func SampleWardrobe() []wardrobe.AddItemRequest {
	return []wardrobe.AddItemRequest{
		{
			Name:     "Navy Blue Dress Shirt",
			Category: "Tops",
			Color:    "Navy Blue",
			ImageURL: "https://images.unsplash.com/photo-1598033129183-c4f50c736f10?q=80&w=1925&auto=format&fit=crop",
			Material: "Cotton",
			Season:   []string{"Spring", "Summer", "Fall"},
			Occasion: []string{"Formal", "Work"},
		},
		{
			Name:     "White Oxford Button-Down",
			Category: "Tops",
			Color:    "White",
			ImageURL: "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?q=80&w=1780&auto=format&fit=crop",
			Material: "Cotton",
			Season:   []string{"All"},
			Occasion: []string{"Casual", "Work", "Formal"},
		},
		{
			Name:     "Black Leather Jacket",
			Category: "Outerwear",
			Color:    "Black",
			ImageURL: "https://images.unsplash.com/photo-1551028719-00167b16eac5?q=80&w=1935&auto=format&fit=crop",
			Material: "Leather",
			Season:   []string{"Fall", "Winter"},
			Occasion: []string{"Casual"},
		},
		{
			Name:     "Khaki Chinos",
			Category: "Bottoms",
			Color:    "Khaki",
			ImageURL: "https://images.unsplash.com/photo-1552902503-b98ae574b4bb?q=80&w=1780&auto=format&fit=crop",
			Material: "Cotton",
			Season:   []string{"All"},
			Occasion: []string{"Casual", "Work"},
		},
		{
			Name:     "Blue Denim Jeans",
			Category: "Bottoms",
			Color:    "Blue",
			ImageURL: "https://images.unsplash.com/photo-1542272604-787c3835535d?q=80&w=1926&auto=format&fit=crop",
			Material: "Denim",
			Season:   []string{"All"},
			Occasion: []string{"Casual"},
		},
		{
			Name:     "Brown Leather Boots",
			Category: "Shoes",
			Color:    "Brown",
			ImageURL: "https://images.unsplash.com/photo-1605812860427-4024433a70fd?q=80&w=1885&auto=format&fit=crop",
			Material: "Leather",
			Season:   []string{"Fall", "Winter"},
			Occasion: []string{"Casual"},
		},
		{
			Name:     "Gray Wool Sweater",
			Category: "Tops",
			Color:    "Gray",
			ImageURL: "https://images.unsplash.com/photo-1516762689617-e1cffcef479d?q=80&w=1822&auto=format&fit=crop",
			Material: "Wool",
			Season:   []string{"Fall", "Winter"},
			Occasion: []string{"Casual", "Work"},
		},
		{
			Name:     "Black Dress Shoes",
			Category: "Shoes",
			Color:    "Black",
			ImageURL: "https://images.unsplash.com/photo-1614252235316-8c857d38b5f4?q=80&w=1780&auto=format&fit=crop",
			Material: "Leather",
			Season:   []string{"All"},
			Occasion: []string{"Formal", "Work"},
		},
		{
			Name:     "Red Plaid Flannel Shirt",
			Category: "Tops",
			Color:    "Red",
			ImageURL: "https://images.unsplash.com/photo-1638719414881-2cb40a0a6be7?q=80&w=1780&auto=format&fit=crop",
			Material: "Cotton",
			Season:   []string{"Fall", "Winter"},
			Occasion: []string{"Casual"},
		},
		{
			Name:     "Black Beanie",
			Category: "Accessories",
			Color:    "Black",
			ImageURL: "https://images.unsplash.com/photo-1576871337622-98d48d1cf531?q=80&w=1887&auto=format&fit=crop",
			Material: "Wool",
			Season:   []string{"Fall", "Winter"},
			Occasion: []string{"Casual"},
		},
	}
}
