package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/moodchat/internal/mood"
)

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values on a fixed 0..100 scale, one rune per sample.
// Only the newest width samples are drawn when there are more.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}

	var b strings.Builder
	top := len(sparkTicks) - 1
	for _, v := range values {
		if math.IsNaN(v) {
			v = 0
		}
		v = math.Max(0, math.Min(100, v))
		b.WriteRune(sparkTicks[int(math.Round(v/100*float64(top)))])
	}
	return b.String()
}

// chartLines renders the mood chart panel body.
func chartLines(samples []mood.Sample, width int) []string {
	if len(samples) == 0 {
		return []string{labelStyle.Render("waiting for samples"), ""}
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}

	last := samples[len(samples)-1]
	span := samples[0].Label
	if len(samples) > 1 {
		span += " → " + last.Label
	}
	return []string{
		sparkStyle.Render(Sparkline(values, width)),
		labelStyle.Render(fmt.Sprintf("%s  %.1f%%", span, last.Value)),
	}
}
