package visualize

import (
	"fmt"
	"image/color"

	"biaslens/bias"
	"biaslens/types"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Sources saves a horizontal bar chart of per-source average sentiment,
// sorted ascending (most negative first), bars colored by sign, with a
// zero reference line.
func Sources(articles []types.Article, path string) error {
	if len(articles) == 0 {
		log.Warn("Cannot generate source bias viz: no articles provided.")
		return nil
	}

	ranked := bias.BySource(articles)

	p := plot.New()
	p.Title.Text = "Average Sentiment by News Source"
	p.X.Label.Text = "Average Sentiment Polarity (Negative to Positive)"
	p.Y.Label.Text = "News Source"

	// One series per sign so bars can carry sign colors; entries outside
	// a series stay at zero width.
	negative := make(plotter.Values, len(ranked))
	positive := make(plotter.Values, len(ranked))
	names := make([]string, len(ranked))
	for i, sb := range ranked {
		names[i] = sb.Source
		if sb.MeanPolarity < 0 {
			negative[i] = sb.MeanPolarity
		} else {
			positive[i] = sb.MeanPolarity
		}
	}

	negBars, err := plotter.NewBarChart(negative, vg.Points(14))
	if err != nil {
		return fmt.Errorf("failed to build negative bars: %w", err)
	}
	negBars.Horizontal = true
	negBars.Color = color.RGBA{R: 0xd6, G: 0x5f, B: 0x5f, A: 255}
	negBars.LineStyle.Width = 0

	posBars, err := plotter.NewBarChart(positive, vg.Points(14))
	if err != nil {
		return fmt.Errorf("failed to build positive bars: %w", err)
	}
	posBars.Horizontal = true
	posBars.Color = color.RGBA{R: 0x6a, G: 0xcc, B: 0x64, A: 255}
	posBars.LineStyle.Width = 0

	p.Add(negBars, posBars)
	p.NominalY(names...)

	zero, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: -0.5},
		{X: 0, Y: float64(len(ranked)) - 0.5},
	})
	if err != nil {
		return fmt.Errorf("failed to build zero line: %w", err)
	}
	zero.Color = color.Black
	zero.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zero)

	height := vg.Length(len(ranked)) * 0.5 * vg.Inch
	if height < 8*vg.Inch {
		height = 8 * vg.Inch
	}
	if err := p.Save(12*vg.Inch, height, path); err != nil {
		return fmt.Errorf("failed to save source bias chart: %w", err)
	}
	log.Printf("Source bias chart saved to %s", path)
	return nil
}
