package config

import "sort"

// Layout is a named starting arrangement.
type Layout struct {
	Width  int
	Height int
	Cells  []Cell
}

var Presets = map[string]Layout{
	// Pair planting on an 11x4 plot: vertical pairs along the top, horizontal
	// pairs along the bottom.
	"pairs": {
		Width: 11, Height: 4,
		Cells: []Cell{
			{0, 0}, {0, 1},
			{2, 0}, {2, 1},
			{4, 0}, {4, 1},
			{6, 0}, {6, 1},
			{8, 0}, {8, 1},
			{10, 0}, {10, 1},
			{0, 3}, {1, 3},
			{3, 3}, {4, 3},
			{6, 3}, {7, 3},
			{9, 3}, {10, 3},
		},
	},
	"rows": {
		Width: 9, Height: 3,
		Cells: row(1, 9),
	},
	"checker": {
		Width: 7, Height: 7,
		Cells: checker(7, 7),
	},
	"cluster": {
		Width: 6, Height: 6,
		Cells: []Cell{{2, 2}, {3, 2}, {2, 3}, {3, 3}},
	},
	"single": {
		Width: 3, Height: 3,
		Cells: []Cell{{1, 1}},
	},
}

func row(y, width int) []Cell {
	cells := make([]Cell, 0, width)
	for x := 0; x < width; x++ {
		cells = append(cells, Cell{x, y})
	}
	return cells
}

func checker(width, height int) []Cell {
	var cells []Cell
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x+y)%2 == 0 {
				cells = append(cells, Cell{x, y})
			}
		}
	}
	return cells
}

func GetPreset(name string) *Layout {
	l, ok := Presets[name]
	if !ok {
		return nil
	}
	return &l
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
