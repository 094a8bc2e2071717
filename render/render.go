// Package render draws the extracted profiles, surface rings and pressure
// maps with gonum plot. Every drawing call takes its Style explicitly.
package render

import (
	"errors"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/marchdf/mcwing/grid"
)

// Style controls the look of a figure.
type Style struct {
	Colors    []color.Color // Cycled through by series
	Dashes    [][]vg.Length // Cycled through by series, nil is a solid line
	LineWidth vg.Length
	Width     vg.Length
	Height    vg.Length
	Palette   palette.Palette // Heat map colors
	NaN       color.Color     // Heat map cells without data
	Levels    [2]float64      // Quantiles bounding the heat map color range
}

// DefaultStyle returns the style of the wing study figures.
func DefaultStyle() Style {
	hex := []uint32{0xEE2E2F, 0x008C48, 0x185AA9, 0xF47D23, 0x662C91, 0xA21D21, 0xB43894, 0x010202}
	colors := make([]color.Color, len(hex))
	for i, h := range hex {
		colors[i] = color.RGBA{R: uint8(h >> 16), G: uint8(h >> 8), B: uint8(h), A: 255}
	}
	pt := vg.Points
	return Style{
		Colors: colors,
		Dashes: [][]vg.Length{
			nil,
			{pt(10), pt(5)},
			{pt(10), pt(4), pt(3), pt(4)},
			{pt(3), pt(3)},
			{pt(10), pt(4), pt(3), pt(4), pt(3), pt(4)},
		},
		LineWidth: pt(2),
		Width:     16 * vg.Centimeter,
		Height:    12 * vg.Centimeter,
		Palette:   moreland.SmoothBlueRed().Palette(255),
		NaN:       color.Gray{Y: 200},
		Levels:    [2]float64{0, 1},
	}
}

func (s Style) color(i int) color.Color {
	if len(s.Colors) == 0 {
		return color.Black
	}
	return s.Colors[i%len(s.Colors)]
}

func (s Style) last() color.Color {
	return s.color(len(s.Colors) - 1)
}

func (s Style) dashes(i int) []vg.Length {
	if len(s.Dashes) == 0 {
		return nil
	}
	return s.Dashes[i%len(s.Dashes)]
}

// Series is one named curve.
type Series struct {
	Label string
	X, Y  []float64

	// Reference series, such as measurements, are drawn with a thin solid
	// line and square markers in the last style color.
	Reference bool
}

// points drops the samples where either coordinate is not finite, they are
// missing values and gonum plot rejects them.
func (s Series) points() plotter.XYs {
	xys := make(plotter.XYs, 0, len(s.X))
	for i := range s.X {
		if plotter.CheckFloats(s.X[i], s.Y[i]) != nil {
			continue
		}
		xys = append(xys, plotter.XY{X: s.X[i], Y: s.Y[i]})
	}
	return xys
}

// Figure is a plot with the size it is written at.
type Figure struct {
	*plot.Plot
	Width, Height vg.Length
}

// Save writes the figure; the format follows the file extension.
func (f *Figure) Save(path string) error {
	return f.Plot.Save(f.Width, f.Height, path)
}

// Write writes the figure in the given format ("png", "svg", "pdf", ...).
func (f *Figure) Write(w io.Writer, format string) error {
	wt, err := f.Plot.WriterTo(f.Width, f.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func (s Style) reference(xys plotter.XYs) (*plotter.Line, *plotter.Scatter, error) {
	l, pts, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, nil, err
	}
	l.Color = s.last()
	l.Width = vg.Points(1)
	pts.Color = s.last()
	pts.Shape = draw.BoxGlyph{}
	pts.Radius = vg.Points(3)
	return l, pts, nil
}

// Lines draws the series as lines, one color and dash pattern each.
// Reference series do not take a color or dash pattern from the cycle.
func Lines(title, xlabel, ylabel string, series []Series, style Style) (*Figure, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	i := 0
	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return nil, errors.New("render: series " + s.Label + " has unequal lengths")
		}
		xys := s.points()
		if len(xys) == 0 {
			continue
		}
		if s.Reference {
			l, pts, err := style.reference(xys)
			if err != nil {
				return nil, err
			}
			p.Add(l, pts)
			if s.Label != "" {
				p.Legend.Add(s.Label, l, pts)
			}
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Color = style.color(i)
		l.Width = style.LineWidth
		l.Dashes = style.dashes(i)
		i++
		p.Add(l)
		if s.Label != "" {
			p.Legend.Add(s.Label, l)
		}
	}
	p.Legend.Top = true
	return &Figure{Plot: p, Width: style.Width, Height: style.Height}, nil
}

// HeatMap draws the grid values over their (X, Y) extent.
func HeatMap(title, xlabel, ylabel string, g *grid.Regular, style Style) (*Figure, error) {
	if style.Palette == nil || len(style.Palette.Colors()) == 0 {
		return nil, errors.New("render: heat map needs a palette")
	}
	min, max, err := g.Bounds(style.Levels[0], style.Levels[1])
	if err != nil {
		return nil, err
	}
	if min == max {
		min, max = min-0.5, max+0.5
	}
	hm := plotter.NewHeatMap(g, style.Palette)
	hm.Min, hm.Max = min, max
	hm.Underflow = style.Palette.Colors()[0]
	hm.Overflow = style.Palette.Colors()[len(style.Palette.Colors())-1]
	hm.NaN = style.NaN

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(hm)
	return &Figure{Plot: p, Width: style.Width, Height: style.Height}, nil
}
