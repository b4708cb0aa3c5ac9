package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/vitalscope/internal/dsp"
)

const (
	specRows = 10
	specCols = 90
)

var (
	heatChars  = []rune{' ', '░', '░', '▒', '▒', '▓', '▓', '█', '█'}
	heatStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("54")),  // deep purple
		lipgloss.NewStyle().Foreground(lipgloss.Color("91")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("126")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("162")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("168")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("226")), // bright yellow
	}
)

// renderSpectrogram draws the dB grid as a colored block heatmap, highest
// frequency on the top row, newest frame on the right.
func renderSpectrogram(sp *dsp.Spectro, rows, cols int) string {
	if sp == nil || len(sp.Power) == 0 || len(sp.Times) == 0 {
		return "(waiting for audio)"
	}

	db := sp.DB()
	bins := len(db)
	frames := len(db[0])

	lo, hi := db[0][0], db[0][0]
	for _, row := range db {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}

	if rows > bins {
		rows = bins
	}
	if cols > frames {
		cols = frames
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		// top row covers the highest retained frequencies
		binLo := (rows - 1 - r) * bins / rows
		binHi := (rows - r) * bins / rows
		for c := 0; c < cols; c++ {
			frame := c * frames / cols
			sum := 0.0
			for bin := binLo; bin < binHi; bin++ {
				sum += db[bin][frame]
			}
			norm := (sum/float64(binHi-binLo) - lo) / (hi - lo)
			idx := int(norm * float64(len(heatChars)-1))
			if idx < 0 {
				idx = 0
			}
			if idx >= len(heatChars) {
				idx = len(heatChars) - 1
			}
			b.WriteString(heatStyles[idx].Render(string(heatChars[idx])))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("spectrogram 0-%.0f hz (proxy audio)", sp.Freqs[len(sp.Freqs)-1]))
	return b.String()
}
