// Package visualize renders the bias history and per-source charts to
// image files. Both operations tolerate empty input by logging and
// returning without writing anything, and hold no rendering state after
// returning.
package visualize

import (
	"fmt"
	"image/color"
	"time"

	"biaslens/temporal"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const movingAverageWindow = 3

// Evolution saves a line plot of the bias history. A trailing 3-point
// moving average is overlaid when enough points exist, and if a trained
// model is supplied the next observation's bias is predicted and marked.
// A failing prediction degrades to a chart without the marker.
func Evolution(rows []temporal.Row, path string, model *temporal.Forest) error {
	if len(rows) == 0 {
		log.Warn("Cannot generate bias evolution viz: data is empty.")
		return nil
	}

	p := plot.New()
	p.Title.Text = "Historical Bias Evolution Over Time"
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Average Bias Intensity (Sentiment Polarity)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	points := make(plotter.XYs, len(rows))
	for i, row := range rows {
		points[i].X = float64(row.Date.Unix())
		points[i].Y = row.BiasIntensity
	}

	line, scatter, err := plotter.NewLinePoints(points)
	if err != nil {
		return fmt.Errorf("failed to build history series: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	scatter.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(line, scatter)
	p.Legend.Add("Daily Average Bias", line)

	if len(rows) >= movingAverageWindow {
		avg := make(plotter.XYs, 0, len(rows)-movingAverageWindow+1)
		for i := movingAverageWindow - 1; i < len(rows); i++ {
			sum := 0.0
			for j := i - movingAverageWindow + 1; j <= i; j++ {
				sum += rows[j].BiasIntensity
			}
			avg = append(avg, plotter.XY{
				X: float64(rows[i].Date.Unix()),
				Y: sum / movingAverageWindow,
			})
		}
		avgLine, err := plotter.NewLine(avg)
		if err != nil {
			return fmt.Errorf("failed to build moving average series: %w", err)
		}
		avgLine.Color = color.RGBA{R: 255, A: 255}
		avgLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(avgLine)
		p.Legend.Add("3-Day Rolling Average", avgLine)
	}

	if model != nil {
		addPredictionMarker(p, rows, model)
	}

	p.Legend.Top = true
	if err := p.Save(14*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save bias evolution chart: %w", err)
	}
	log.Printf("Bias evolution chart saved to %s", path)
	return nil
}

// addPredictionMarker predicts the observation after the last date and
// marks it. The prediction target is the next observation in sequence, so
// the feature is simply days-since-start of the last row plus one.
func addPredictionMarker(p *plot.Plot, rows []temporal.Row, model *temporal.Forest) {
	last := rows[len(rows)-1]
	daysSinceStart := temporal.DaysSince(rows[0].Date, last.Date)

	predicted, err := model.Predict([]float64{daysSinceStart + 1, last.BiasIntensity})
	if err != nil {
		log.Printf("Warning: could not predict tomorrow's bias: %v", err)
		return
	}

	tomorrow := last.Date.Add(24 * time.Hour)
	marker, err := plotter.NewScatter(plotter.XYs{{
		X: float64(tomorrow.Unix()),
		Y: predicted,
	}})
	if err != nil {
		log.Printf("Warning: could not draw prediction marker: %v", err)
		return
	}
	marker.GlyphStyle = draw.GlyphStyle{
		Color:  color.RGBA{R: 255, A: 255},
		Radius: vg.Points(6),
		Shape:  draw.PyramidGlyph{},
	}
	p.Add(marker)
	p.Legend.Add(fmt.Sprintf("Predicted Bias (Tomorrow): %.2f", predicted), marker)
}
