// Package report renders a histogram chart with the selected threshold
// marked.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"binarization/internal/models"
	"binarization/internal/processing/histogram"
)

const maxticks = 16

func createVerticalLine(x, top float64, c drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    fmt.Sprintf("threshold %.0f", x),
		XValues: []float64{x, x},
		YValues: []float64{0, top},
		Style: chart.Style{
			StrokeColor:     c,
			StrokeWidth:     2,
			StrokeDashArray: []float64{10.0, 5.0},
		},
	}
}

// Histogram renders the histogram as a PNG. For global outcomes the
// selected bin is drawn as a dashed vertical line.
func Histogram(h *histogram.Histogram, outcome models.Outcome, title string, w io.Writer) error {
	if h == nil || h.Total == 0 {
		return errors.New("histogram is empty")
	}

	levels := h.Levels()
	xvalues := make([]float64, levels)
	yvalues := make([]float64, levels)
	top := 0.0
	for i, c := range h.Counts {
		xvalues[i] = float64(i)
		yvalues[i] = float64(c)
		if yvalues[i] > top {
			top = yvalues[i]
		}
	}
	if top == 0 {
		top = 1
	}

	var ticks []chart.Tick
	tickevery := levels / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	for i := 0; i < levels; i += tickevery {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: fmt.Sprintf("%d", i)})
	}

	mainSeries := chart.ContinuousSeries{
		Name: "count",
		Style: chart.Style{
			StrokeColor: chart.ColorBlue,
			FillColor:   chart.ColorAlternateBlue,
		},
		XValues: xvalues,
		YValues: yvalues,
	}

	graph := chart.Chart{
		Title:  title,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name: "Bin",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: float64(levels - 1),
			},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Pixels",
			Range: &chart.ContinuousRange{
				Min: 0.0,
				Max: top * 1.05,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	if outcome.Global {
		graph.Series = append(graph.Series,
			createVerticalLine(float64(outcome.Bin), top*1.05, chart.ColorRed),
			chart.AnnotationSeries{
				Annotations: []chart.Value2{{
					Label:  outcome.String(),
					XValue: float64(outcome.Bin),
					YValue: top,
				}},
			},
		)
	}

	return graph.Render(chart.PNG, w)
}

// WriteHistogram renders the chart to path.
func WriteHistogram(path string, h *histogram.Histogram, outcome models.Outcome, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create histogram plot: %w", err)
	}
	if err := Histogram(h, outcome, title, f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render histogram plot: %w", err)
	}
	return f.Close()
}
