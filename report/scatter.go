// Package report renders cross-validation results.
package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/osvm/pkg/errors"
)

// Size is the edge length of the square scatter plot.
const Size = 4 * vg.Inch

// WriteScatter plots each cross-validation prediction against its true
// label together with the y = x reference line. The image format follows
// the extension of path (.png, .svg, .pdf, ...).
func WriteScatter(path string, y, pred []float64, title string) error {
	if len(y) == 0 {
		return errors.NewValueError("WriteScatter", "empty vector")
	}
	if len(pred) != len(y) {
		return errors.NewDimensionError("WriteScatter", len(y), len(pred))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "label"
	p.Y.Label.Text = "prediction"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(y))
	for i := range y {
		pts[i].X = y[i]
		pts[i].Y = pred[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "scatter")
	}
	p.Add(scatter)

	identity := plotter.NewFunction(func(x float64) float64 { return x })
	identity.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(identity)

	if err := p.Save(Size, Size, path); err != nil {
		return errors.NewIOError("save plot to file", path, err)
	}
	return nil
}
