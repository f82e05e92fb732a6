package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	terminalWidthBackup = 80
)

var seriesMarkers = []byte{'*', '+', 'o', 'x'}

// PlotSeries renders a multi-line text plot. Each series is scaled to its
// own min/max, noted in the legend. Zero width sizes the plot to the
// terminal; zero height uses the default.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	grid := make([][]byte, height)
	for i := range grid {
		row := make([]byte, width)
		for j := range row {
			row[j] = ' '
		}
		grid[i] = row
	}

	for si, s := range series {
		values := resampleSeries(s.Values, width)
		minVal, maxVal := seriesMinMax(values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		marker := seriesMarkers[si%len(seriesMarkers)]
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			y := height - 1 - int(math.Round(pos*float64(height-1)))
			if y < 0 {
				y = 0
			}
			if y >= height {
				y = height - 1
			}
			grid[y][x] = marker
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for _, row := range grid {
		if _, err := fmt.Fprintf(w, "│%s\n", string(row)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "└%s\n", stringsRepeat('─', width)); err != nil {
		return err
	}
	for si, s := range series {
		minVal, maxVal := seriesMinMax(s.Values)
		marker := seriesMarkers[si%len(seriesMarkers)]
		if _, err := fmt.Fprintf(w, "%c %s (min %.1f, max %.1f)\n", marker, s.Name, minVal, maxVal); err != nil {
			return err
		}
	}
	return nil
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// resampleSeries stretches or shrinks values to exactly width points by
// nearest-neighbor sampling.
func resampleSeries(values []float64, width int) []float64 {
	if width <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) / float64(width-1) * float64(len(values)-1)
		idx := int(math.Round(pos))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[i] = values[idx]
	}
	return out
}

func autoPlotWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = terminalWidthBackup
	}
	return width - 2
}

func stringsRepeat(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
