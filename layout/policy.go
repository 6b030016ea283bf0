package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrClassificationUnknown is returned when the declared resolution does not
// fall into a known aspect-ratio bucket.
var ErrClassificationUnknown = errors.New("layout: unknown aspect ratio")

// AspectRatio is the bucket a resolution is classified into.
type AspectRatio int

const (
	AspectUnknown AspectRatio = iota
	Aspect4x3
	Aspect16x9
)

func (a AspectRatio) String() string {
	switch a {
	case Aspect4x3:
		return "4:3"
	case Aspect16x9:
		return "16:9"
	default:
		return "unknown"
	}
}

// MarshalText lets buckets show up by name in debug JSON.
func (a AspectRatio) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

const aspectTolerance = 0.05

// checked in this order, first match wins
var canonicalRatios = []struct {
	bucket AspectRatio
	ratio  float64
}{
	{Aspect4x3, 4.0 / 3.0},
	{Aspect16x9, 16.0 / 9.0},
}

var widthMultipliers = map[AspectRatio]map[int]float64{
	Aspect4x3:  {1: 0.825, 2: 0.9},
	Aspect16x9: {1: 0.7, 2: 0.9},
}

// ClassifyAspectRatio buckets width/height. Zero dimensions are unknown.
func ClassifyAspectRatio(width, height int) AspectRatio {
	if width <= 0 || height <= 0 {
		return AspectUnknown
	}
	ratio := float64(width) / float64(height)
	for _, c := range canonicalRatios {
		larger, smaller := max(ratio, c.ratio), min(ratio, c.ratio)
		if larger/smaller-1 < aspectTolerance {
			return c.bucket
		}
	}
	return AspectUnknown
}

// WidthMultipliers returns a copy of the line-count table of a bucket.
func WidthMultipliers(a AspectRatio) map[int]float64 {
	table := widthMultipliers[a]
	out := make(map[int]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// WidthPolicy decides how wide a line may get for a given line count.
type WidthPolicy struct {
	Resolution Resolution
	Aspect     AspectRatio
}

// NewWidthPolicy classifies res; unknown buckets yield ErrClassificationUnknown.
func NewWidthPolicy(res Resolution) (*WidthPolicy, error) {
	aspect := ClassifyAspectRatio(res.Width, res.Height)
	if aspect == AspectUnknown {
		return nil, fmt.Errorf("%w (%s)", ErrClassificationUnknown, res)
	}
	return &WidthPolicy{Resolution: res, Aspect: aspect}, nil
}

// Multiplier looks up the fraction of the video width allowed for lines.
// Only 1 and 2 lines are in the table.
func (p *WidthPolicy) Multiplier(lines int) (float64, bool) {
	m, ok := widthMultipliers[p.Aspect][lines]
	return m, ok
}

// OptimalWidth is the pixel width allowed for lines.
func (p *WidthPolicy) OptimalWidth(lines int) (float64, bool) {
	m, ok := p.Multiplier(lines)
	if !ok {
		return 0, false
	}
	return float64(p.Resolution.Width) * m, true
}

// LineCount converts a measured height into a number of rendered lines.
// Halves round to even.
func LineCount(height, lineHeight float64) int {
	if lineHeight <= 0 {
		return 0
	}
	return int(math.RoundToEven(height / lineHeight))
}
