package catalog

// SeedProducts returns the built-in catalog used when no snapshot exists.
func SeedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Maçã Fuji", Description: "Maçãs Fuji frescas e crocantes, perfeitas para um lanche saudável.", Price: 8.99, Unit: UnitWeight, Image: "https://picsum.photos/seed/apple/400/400"},
		{ID: "2", Name: "Banana Prata", Description: "Bananas Prata maduras, ricas em potássio e energia.", Price: 5.49, Unit: UnitWeight, Image: "https://picsum.photos/seed/banana/400/400"},
		{ID: "3", Name: "Alface Crespa", Description: "Alface crespa, fresca e orgânica, ideal para saladas.", Price: 3.50, Unit: UnitCount, Image: "https://picsum.photos/seed/lettuce/400/400"},
		{ID: "4", Name: "Tomate Italiano", Description: "Tomates italianos suculentos, ótimos para molhos e saladas.", Price: 9.90, Unit: UnitWeight, Image: "https://picsum.photos/seed/tomato/400/400"},
		{ID: "5", Name: "Cenoura", Description: "Cenouras frescas, ricas em vitamina A.", Price: 4.20, Unit: UnitWeight, Image: "https://picsum.photos/seed/carrot/400/400"},
		{ID: "6", Name: "Brócolis", Description: "Brócolis ninja, cheio de nutrientes e sabor.", Price: 7.00, Unit: UnitCount, Image: "https://picsum.photos/seed/broccoli/400/400"},
	}
}
