package nav

// Default returns the vertical menu of the dashboard. None of its entries are
// role restricted.
func Default() Tree {
	return Tree{
		{
			Title: "Home",
			To:    &Target{Name: "second-page"},
			Icon:  &Icon{Icon: "tabler-smart-home"},
		},
		{
			Title: "Inventario",
			To:    &Target{Name: "inventario"},
			Icon:  &Icon{Icon: "tabler-box"},
		},
		{
			Title: "Catálogos",
			Icon:  &Icon{Icon: "tabler-folder"},
			Children: []*Node{
				{Title: "Departamentos"},
				{Title: "Municipios"},
			},
		},
	}
}
