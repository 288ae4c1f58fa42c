package colour

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultThreshold is the perceptual distance below which two colours are
// treated as the same canonical colour.
const DefaultThreshold = 10.0

// go-colorful keeps L*a*b* in 0..1 (L) rather than the usual 0..100.
const labScale = 100.0

// Lab is a colour in CIE L*a*b* (D65), L in 0..100.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// ToPerceptual converts 8-bit sRGB to CIE L*a*b*.
// go-colorful linearises the sRGB channels before the XYZ step.
func ToPerceptual(rgb RGB) Lab {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	l, a, b := c.Lab()
	return Lab{L: l * labScale, A: a * labScale, B: b * labScale}
}

// Distance returns the CIE76 colour difference (Euclidean distance in L*a*b*).
func Distance(x, y Lab) float64 {
	dl := x.L - y.L
	da := x.A - y.A
	db := x.B - y.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

func (c Lab) toColorful() colorful.Color {
	return colorful.Lab(c.L/labScale, c.A/labScale, c.B/labScale)
}

// Metric selects the colour difference formula used for clustering.
type Metric string

// Supported metrics. All report distances in L*a*b* units, so DefaultThreshold
// is calibrated for MetricCIE76 and usually wants lowering for the others.
const (
	MetricCIE76     Metric = "cie76"
	MetricCIE94     Metric = "cie94"
	MetricCIEDE2000 Metric = "ciede2000"
)

// ParseMetric parses a metric name. An empty name selects MetricCIE76.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return MetricCIE76, nil
	case MetricCIE76, MetricCIE94, MetricCIEDE2000:
		return m, nil
	default:
		return "", fmt.Errorf("unknown distance metric: %s (valid: cie76, cie94, ciede2000)", name)
	}
}

// Distance returns the distance between x and y under the metric.
func (m Metric) Distance(x, y Lab) float64 {
	switch m {
	case MetricCIE94:
		return x.toColorful().DistanceCIE94(y.toColorful()) * labScale
	case MetricCIEDE2000:
		return x.toColorful().DistanceCIEDE2000(y.toColorful()) * labScale
	default:
		return Distance(x, y)
	}
}

// String returns the metric name.
func (m Metric) String() string {
	if m == "" {
		return string(MetricCIE76)
	}
	return string(m)
}
