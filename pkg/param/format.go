package param

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Format specifies how a parameter's float32 value is rendered for a host
// control surface.
type Format int

const (
	FormatDefault Format = iota
	FormatDecibel
	FormatPercentage
	FormatMilliseconds
	FormatSeconds
	FormatHertz
	FormatSemitones
)

// FormatValue renders value as text per format.
func FormatValue(value float32, format Format) string {
	v := float64(value)
	switch format {
	case FormatDecibel:
		if v <= 0 {
			return "-inf dB"
		}
		return fmt.Sprintf("%.1f dB", 20.0*math.Log10(v))
	case FormatPercentage:
		return fmt.Sprintf("%.1f%%", v*100.0)
	case FormatMilliseconds:
		return fmt.Sprintf("%.0f ms", v*1000.0)
	case FormatSeconds:
		return fmt.Sprintf("%.2f s", v)
	case FormatHertz:
		return fmt.Sprintf("%.1f Hz", v)
	case FormatSemitones:
		return fmt.Sprintf("%.2f st", v)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

var numberPattern = regexp.MustCompile(`[+-]?\d*\.?\d+`)

// ParseValue parses text back into a float32 per format, tolerating the
// format's usual unit suffix.
func ParseValue(text string, format Format) (float32, error) {
	text = strings.TrimSpace(text)
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("no numeric value found in %q", text)
	}
	num, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, err
	}
	switch format {
	case FormatDecibel:
		return float32(math.Pow(10, num/20.0)), nil
	case FormatPercentage:
		return float32(num / 100.0), nil
	case FormatMilliseconds:
		return float32(num / 1000.0), nil
	default:
		return float32(num), nil
	}
}
