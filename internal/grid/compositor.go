package grid

import (
	"fmt"

	"videogrid/internal/frame"
	"videogrid/internal/services"
)

// Compose stitches one frame per source into a new Height×Width frame.
// frames must be in source order and match the layout cells exactly.
func Compose(layout Layout, frames []*frame.RawFrame) (*frame.RawFrame, error) {
	if len(frames) != Cells {
		return nil, services.Wrap(services.ErrValidation, "grid", "compose",
			fmt.Sprintf("need %d frames, got %d", Cells, len(frames)), nil)
	}
	out, err := frame.New(layout.Width, layout.Height)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "grid", "compose", "allocate", err)
	}
	for i, src := range frames {
		cell := layout.Cells[i]
		if src == nil || src.Width != cell.Width || src.Height != cell.Height {
			got := "nil"
			if src != nil {
				got = fmt.Sprintf("%dx%d", src.Width, src.Height)
			}
			return nil, services.Wrap(services.ErrValidation, "grid", "compose",
				fmt.Sprintf("source %d is %s, layout expects %dx%d", i, got, cell.Width, cell.Height), nil)
		}
		if err := frame.BlitInto(out, cell.X, cell.Y, src); err != nil {
			return nil, services.Wrap(services.ErrValidation, "grid", "compose", fmt.Sprintf("source %d", i), err)
		}
	}
	return out, nil
}

// Sizes collects source geometries in order.
func Sizes(frames []*frame.RawFrame) []Size {
	sizes := make([]Size, len(frames))
	for i, f := range frames {
		sizes[i] = Size{Width: f.Width, Height: f.Height}
	}
	return sizes
}
