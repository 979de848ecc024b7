package forecast

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// renderChart draws the historical series, the median forecast and
// the shaded 10-90% quantile band into a PNG.
func renderChart(history []float64, f *Forecast) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Forecast"
	p.X.Label.Text = "Period"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	historical := make(plotter.XYs, len(history))
	for i, v := range history {
		historical[i].X = float64(i)
		historical[i].Y = v
	}

	// The forecast picks up where the history ends.
	offset := len(history)
	median := make(plotter.XYs, len(f.Median))
	for i, v := range f.Median {
		median[i].X = float64(offset + i)
		median[i].Y = v
	}

	// Band polygon: upper bound left to right, lower bound back.
	band := make(plotter.XYs, 0, 2*len(f.Median))
	for i, v := range f.High {
		band = append(band, plotter.XY{X: float64(offset + i), Y: v})
	}
	for i := len(f.Low) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: float64(offset + i), Y: f.Low[i]})
	}

	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return nil, fmt.Errorf("failed to build quantile band: %w", err)
	}
	poly.Color = color.NRGBA{R: 0, G: 128, B: 0, A: 70}
	poly.LineStyle.Color = color.NRGBA{A: 0}
	p.Add(poly)

	historyLine, err := plotter.NewLine(historical)
	if err != nil {
		return nil, fmt.Errorf("failed to build historical line: %w", err)
	}
	historyLine.Color = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	p.Add(historyLine)
	p.Legend.Add("Historical", historyLine)

	medianLine, err := plotter.NewLine(median)
	if err != nil {
		return nil, fmt.Errorf("failed to build median line: %w", err)
	}
	medianLine.Color = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	p.Add(medianLine)
	p.Legend.Add("Median Forecast", medianLine)

	p.Legend.Top = true

	writer, err := p.WriterTo(8*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create chart writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return buf.Bytes(), nil
}
