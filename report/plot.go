package report

import (
	"sort"

	"github.com/brentp/covratio/coverage"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Plot saves a scatter of predicted against observed support for every verdict, with passing
// and failing references in different colors. The format follows the extension of path.
func Plot(path string, verdicts map[string]coverage.Verdict) error {
	ids := make([]string, 0, len(verdicts))
	for id := range verdicts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := []struct {
		name string
		xys  plotter.XYs
	}{{name: "passed"}, {name: "failed"}}
	for _, id := range ids {
		v := verdicts[id]
		i := 1
		if v.Passed {
			i = 0
		}
		groups[i].xys = append(groups[i].xys, plotter.XY{X: v.PredictedSupport, Y: v.Support})
	}

	p := plot.New()
	p.Title.Text = "observed vs predicted genome coverage"
	p.X.Label.Text = "predicted support"
	p.Y.Label.Text = "support"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	diag := plotter.NewFunction(func(x float64) float64 { return x })
	diag.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(diag)

	for i, g := range groups {
		if len(g.xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(g.xys)
		if err != nil {
			return errors.Wrap(err, "report: plotting")
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(g.name, s)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "report: saving %s", path)
	}
	return nil
}
