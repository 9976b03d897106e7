package report

import (
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/cytobench/metrics"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

var curvePalette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
}

// SaveROCPlot draws one ROC curve per model plus the chance diagonal
// and writes the image to path. The file format follows the path
// extension (png, svg, pdf).
func SaveROCPlot(path string, curves map[string]*metrics.ROC) error {
	if len(curves) == 0 {
		return errors.NewValueError("SaveROCPlot", "no curves to draw")
	}

	p := plot.New()
	p.Title.Text = "ROC curves (test partition)"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false
	p.Legend.Left = false

	diagonal := plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}}
	chance, err := plotter.NewLine(diagonal)
	if err != nil {
		return errors.WithStack(err)
	}
	chance.LineStyle.Color = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	chance.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(chance)

	names := make([]string, 0, len(curves))
	for name := range curves {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		roc := curves[name]
		pts := make(plotter.XYs, len(roc.Points))
		for j, pt := range roc.Points {
			pts[j] = plotter.XY{X: pt.FPR, Y: pt.TPR}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.WithStack(err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = curvePalette[i%len(curvePalette)]
		p.Add(line)
		p.Legend.Add(name, line)
	}

	if err := p.Save(5*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save ROC plot")
	}
	return nil
}
