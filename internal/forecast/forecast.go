package forecast

import (
	"context"
	"fmt"
	"log"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sampler produces probabilistic forecast trajectories for a numeric
// history: numSamples trajectories, each horizon values long.
type Sampler interface {
	Sample(ctx context.Context, history []float64, horizon, numSamples int) ([][]float64, error)
}

// Forecast is the result of a single prediction: the 10th/50th/90th
// percentile trajectories across the sampled outputs, plus the
// rendered chart.
type Forecast struct {
	Median []float64
	Low    []float64
	High   []float64
	Chart  []byte // PNG
}

type Service struct {
	sampler    Sampler
	numSamples int
}

func NewService(sampler Sampler, numSamples int) *Service {
	if numSamples <= 0 {
		numSamples = 20
	}
	return &Service{sampler: sampler, numSamples: numSamples}
}

// Predict runs the forecasting model for the given history and
// horizon and reduces the sampled trajectories to quantile bands.
func (s *Service) Predict(ctx context.Context, history []float64, horizon int) (*Forecast, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("historical values must not be empty")
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("prediction horizon must be positive, got %d", horizon)
	}

	samples, err := s.sampler.Sample(ctx, history, horizon, s.numSamples)
	if err != nil {
		return nil, fmt.Errorf("forecast sampling failed: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("forecasting model returned no samples")
	}
	for i, sample := range samples {
		if len(sample) != horizon {
			return nil, fmt.Errorf("forecast sample %d has %d values, expected %d", i, len(sample), horizon)
		}
	}

	f := &Forecast{
		Median: make([]float64, horizon),
		Low:    make([]float64, horizon),
		High:   make([]float64, horizon),
	}

	step := make([]float64, len(samples))
	for t := 0; t < horizon; t++ {
		for i, sample := range samples {
			step[i] = sample[t]
		}
		sort.Float64s(step)
		f.Low[t] = stat.Quantile(0.1, stat.Empirical, step, nil)
		f.Median[t] = stat.Quantile(0.5, stat.Empirical, step, nil)
		f.High[t] = stat.Quantile(0.9, stat.Empirical, step, nil)
	}

	chart, err := renderChart(history, f)
	if err != nil {
		// The numeric forecast is still usable without the chart.
		log.Printf("Failed to render forecast chart: %v", err)
	} else {
		f.Chart = chart
	}

	return f, nil
}
