package overlay

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"videogrid/internal/frame"
)

const (
	DefaultScale        = 3.6
	DefaultThickness    = 9
	DefaultMarginBottom = 30

	// baseCapHeight is the cap height in pixels at scale 1.0.
	baseCapHeight = 22.0
	// coverageThreshold turns antialiased glyph coverage into a binary mask.
	coverageThreshold = 128
)

// Options controls label geometry.
type Options struct {
	Scale        float64
	Thickness    int
	MarginBottom int
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Thickness <= 0 {
		o.Thickness = DefaultThickness
	}
	if o.MarginBottom <= 0 {
		o.MarginBottom = DefaultMarginBottom
	}
	return o
}

// Stamper paints labels onto frames. It caches the prepared masks so a clip's
// frames are rasterized only once.
type Stamper struct {
	opts Options
	face font.Face

	mu    sync.Mutex
	cache map[stampKey]*stamp
}

type stampKey struct {
	label  string
	width  int
	height int
}

// stamp holds the outline and fill masks over the label's bounding rectangle.
type stamp struct {
	rect    image.Rectangle
	outline []bool
	fill    []bool
}

// New parses the embedded face at the pixel size implied by opts.Scale.
func New(opts Options) (*Stamper, error) {
	opts = opts.withDefaults()
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	size, err := pixelSize(parsed, opts.Scale)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}
	return &Stamper{opts: opts, face: face, cache: make(map[stampKey]*stamp)}, nil
}

// pixelSize picks the em size whose cap height equals baseCapHeight*scale.
func pixelSize(f *opentype.Font, scale float64) (float64, error) {
	const probeSize = 100.0
	probe, err := opentype.NewFace(f, &opentype.FaceOptions{Size: probeSize, DPI: 72})
	if err != nil {
		return 0, fmt.Errorf("probe label face: %w", err)
	}
	defer probe.Close()
	capHeight := float64(probe.Metrics().CapHeight) / 64
	if capHeight <= 0 {
		return baseCapHeight * scale, nil
	}
	return baseCapHeight * scale * probeSize / capHeight, nil
}

// Options returns the effective options after defaults.
func (s *Stamper) Options() Options {
	return s.opts
}

// Stamp paints label onto f in place: the outline in black, then the fill in
// white on top. An empty label leaves f untouched.
func (s *Stamper) Stamp(f *frame.RawFrame, label string) {
	label = norm.NFC.String(strings.TrimSpace(label))
	if label == "" || f == nil || f.Validate() != nil {
		return
	}
	st := s.prepare(label, f.Width, f.Height)
	w := st.rect.Dx()
	for y := st.rect.Min.Y; y < st.rect.Max.Y; y++ {
		row := (y - st.rect.Min.Y) * w
		for x := st.rect.Min.X; x < st.rect.Max.X; x++ {
			i := row + x - st.rect.Min.X
			switch {
			case st.fill[i]:
				f.Set(x, y, 255, 255, 255)
			case st.outline[i]:
				f.Set(x, y, 0, 0, 0)
			}
		}
	}
}

// Origin returns the baseline origin of label inside a width×height frame.
func (s *Stamper) Origin(label string, width, height int) image.Point {
	textWidth := font.MeasureString(s.face, label).Round()
	return image.Pt((width-textWidth)/2, height-s.opts.MarginBottom)
}

func (s *Stamper) prepare(label string, width, height int) *stamp {
	key := stampKey{label: label, width: width, height: height}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.cache[key]; ok {
		return st
	}

	origin := s.Origin(label, width, height)
	bounds := image.Rect(0, 0, width, height)
	mask := image.NewAlpha(bounds)
	drawer := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: s.face,
		Dot:  fixed.P(origin.X, origin.Y),
	}
	drawer.DrawString(label)

	glyphs, _ := font.BoundString(s.face, label)
	outlineRadius := float64(s.opts.Thickness+2) / 2
	fillRadius := float64(s.opts.Thickness) / 2
	pad := int(outlineRadius) + 1
	rect := image.Rect(
		glyphs.Min.X.Floor()+origin.X-pad,
		glyphs.Min.Y.Floor()+origin.Y-pad,
		glyphs.Max.X.Ceil()+origin.X+pad,
		glyphs.Max.Y.Ceil()+origin.Y+pad,
	).Intersect(bounds)

	st := &stamp{
		rect:    rect,
		outline: dilate(mask, rect, outlineRadius),
		fill:    dilate(mask, rect, fillRadius),
	}
	s.cache[key] = st
	return st
}

// dilate marks every pixel of rect within radius of a covered mask pixel.
func dilate(mask *image.Alpha, rect image.Rectangle, radius float64) []bool {
	out := make([]bool, rect.Dx()*rect.Dy())
	if rect.Empty() {
		return out
	}
	offsets := disc(radius)
	mb := mask.Bounds()
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if mask.AlphaAt(x, y).A < coverageThreshold {
				continue
			}
			for _, o := range offsets {
				px, py := x+o.X, y+o.Y
				if !image.Pt(px, py).In(rect) || !image.Pt(px, py).In(mb) {
					continue
				}
				out[(py-rect.Min.Y)*rect.Dx()+px-rect.Min.X] = true
			}
		}
	}
	return out
}

func disc(radius float64) []image.Point {
	r := int(radius)
	limit := radius * radius
	points := make([]image.Point, 0, (2*r+1)*(2*r+1))
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) <= limit {
				points = append(points, image.Pt(dx, dy))
			}
		}
	}
	return points
}
