package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMetricFormat   = errors.New("value must be a number")
	ErrMetricDuration = errors.New("duration must be h:mm or a positive number of minutes")
	ErrMetricNegative = errors.New("value must not be negative")
)

var (
	hmmPattern    = regexp.MustCompile(`^(\d+):([0-5]\d)$`)
	numberPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ParseMetricValue converts raw input into the stored number. Durations
// are minutes and accept h:mm or a plain number; they must be positive.
// Other metrics accept any non-negative number. ok is false for empty
// input, which means "leave unset".
func ParseMetricValue(raw string, isDuration bool) (value float64, ok bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, nil
	}

	if isDuration {
		if m := hmmPattern.FindStringSubmatch(s); m != nil {
			h, _ := strconv.Atoi(m[1])
			mm, _ := strconv.Atoi(m[2])
			value = float64(h*60 + mm)
		} else if numberPattern.MatchString(s) {
			value, _ = strconv.ParseFloat(s, 64)
		} else {
			return 0, false, ErrMetricDuration
		}
		if value <= 0 {
			return 0, false, ErrMetricDuration
		}
		return value, true, nil
	}

	value, err = strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false, ErrMetricFormat
	}
	if value < 0 {
		return 0, false, ErrMetricNegative
	}
	return value, true, nil
}

// FormatMetricValue renders a stored value for an input field.
func FormatMetricValue(value float64, isDuration bool) string {
	if isDuration {
		return FormatHMM(int(math.Round(value)))
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatHMM renders minutes as h:mm.
func FormatHMM(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
