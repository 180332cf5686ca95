// Package report turns recorded time series into text, statistics and charts.
package report

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mesh-ca/internal/core"
	pcore "mesh-ca/pkg/core"
	"mesh-ca/pkg/mesh"
)

// DefaultGlyphs renders palette index i as DefaultGlyphs[i].
const DefaultGlyphs = ".#o"

// WriteFrame prints a frame with north at the top. Indices past the end of
// glyphs are printed as the last glyph; unavailable cells as '?'.
func WriteFrame(w io.Writer, frame *pcore.ByteGrid, glyphs string) error {
	if glyphs == "" {
		glyphs = DefaultGlyphs
	}
	bw := bufio.NewWriter(w)
	for y := frame.H - 1; y >= 0; y-- {
		for x := 0; x < frame.W; x++ {
			v := frame.Cells()[frame.Index(x, y)]
			switch {
			case v == core.Unavailable:
				bw.WriteByte('?')
			case int(v) >= len(glyphs):
				bw.WriteByte(glyphs[len(glyphs)-1])
			default:
				bw.WriteByte(glyphs[v])
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteSeries prints every frame of ts separated by a tick header.
func WriteSeries(w io.Writer, ts *mesh.TimeSeries, shade func(mesh.State) uint8, glyphs string) error {
	for t := 0; t < ts.Frames(); t++ {
		if _, err := fmt.Fprintf(w, "tick %d (population %d)\n", t+1, ts.Population(t)); err != nil {
			return err
		}
		if err := WriteFrame(w, ts.Frame(t, shade, core.Unavailable), glyphs); err != nil {
			return err
		}
	}
	return nil
}

// Summary describes the population of a run over time.
type Summary struct {
	Frames  int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Final   float64
	Missing int
	Failed  int
}

func (s Summary) String() string {
	return fmt.Sprintf("frames=%d population mean=%.2f sd=%.2f min=%.0f max=%.0f final=%.0f missing=%d failed=%d",
		s.Frames, s.Mean, s.StdDev, s.Min, s.Max, s.Final, s.Missing, s.Failed)
}

// Summarize computes population statistics for ts.
func Summarize(ts *mesh.TimeSeries) Summary {
	pop := ts.PopulationSeries()
	s := Summary{
		Frames:  len(pop),
		Missing: len(ts.Missing()),
		Failed:  len(ts.Failed()),
	}
	if len(pop) == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(pop, nil)
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	s.Min = floats.Min(pop)
	s.Max = floats.Max(pop)
	s.Final = pop[len(pop)-1]
	return s
}

// WriteChart renders the population over time as a PNG.
func WriteChart(w io.Writer, title string, ts *mesh.TimeSeries) error {
	pop := ts.PopulationSeries()
	if len(pop) == 0 {
		return fmt.Errorf("no frames to chart")
	}
	xs := make([]float64, len(pop))
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	yMax := math.Max(floats.Max(pop), 1)
	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 320,
		XAxis: chart.XAxis{
			Name:  "tick",
			Range: &chart.ContinuousRange{Min: 1, Max: math.Max(float64(len(pop)), 2)},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "active cells",
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "population",
				XValues: xs,
				YValues: pop,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
