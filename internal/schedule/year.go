package schedule

import (
	"strconv"
	"time"

	"github.com/pfrederiksen/canal-matches/internal/document"
)

const (
	minYear = 1900
	maxYear = 2100
)

// InferYear returns the year of the first explicit numeric date that carries one.
// Only the first date fragment of each line is considered. Two-digit years count
// from 2000; candidates outside [1900, 2100] are skipped.
// When no line qualifies the current UTC year is used.
func InferYear(lines []document.Line, now time.Time) int {
	for _, line := range lines {
		m := datePattern.FindStringSubmatch(line.Text)
		if m == nil || m[3] == "" {
			continue
		}
		y, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		y = normalizeYear(y)
		if y >= minYear && y <= maxYear {
			return y
		}
	}
	return now.UTC().Year()
}
