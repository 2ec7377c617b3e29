package grid

import (
	"fmt"

	"videogrid/internal/services"
)

const (
	Rows    = 2
	Columns = 4
	Cells   = Rows * Columns
)

// Size is the geometry of one source.
type Size struct {
	Width  int
	Height int
}

// Cell places one source inside the composite frame.
type Cell struct {
	Row    int
	X      int
	Y      int
	Width  int
	Height int
}

// Layout is computed once per run and never changes afterwards.
type Layout struct {
	RowHeights [Rows]int
	RowWidths  [Rows]int
	Width      int
	Height     int
	Cells      [Cells]Cell
}

// NewLayout computes the grid geometry from the per-source sizes in
// configured order.
func NewLayout(sizes []Size) (Layout, error) {
	if len(sizes) != Cells {
		return Layout{}, services.Wrap(services.ErrConfiguration, "grid", "layout",
			fmt.Sprintf("need %d sources, got %d", Cells, len(sizes)), nil)
	}
	var layout Layout
	for i, size := range sizes {
		if size.Width <= 0 || size.Height <= 0 {
			return Layout{}, services.Wrap(services.ErrValidation, "grid", "layout",
				fmt.Sprintf("source %d has invalid size %dx%d", i, size.Width, size.Height), nil)
		}
		row := i / Columns
		layout.Cells[i] = Cell{
			Row:    row,
			X:      layout.RowWidths[row],
			Width:  size.Width,
			Height: size.Height,
		}
		layout.RowWidths[row] += size.Width
		layout.RowHeights[row] = max(layout.RowHeights[row], size.Height)
	}
	layout.Width = max(layout.RowWidths[0], layout.RowWidths[1])
	layout.Height = layout.RowHeights[0] + layout.RowHeights[1]
	for i := range layout.Cells {
		if layout.Cells[i].Row == 1 {
			layout.Cells[i].Y = layout.RowHeights[0]
		}
	}
	return layout, nil
}

// BottomPadding is the number of black rows appended under source i.
func (l Layout) BottomPadding(i int) int {
	c := l.Cells[i]
	return l.RowHeights[c.Row] - c.Height
}

// RightPadding is the number of black columns appended after row r.
func (l Layout) RightPadding(r int) int {
	return l.Width - l.RowWidths[r]
}
