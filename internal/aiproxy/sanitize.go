package aiproxy

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// numberField bounds a numeric input field.
type numberField struct {
	Key      string
	Min, Max float64
	Integer  bool
}

// textField bounds a string input field by rune count.
type textField struct {
	Key    string
	MaxLen int
}

// schema lists the fields a payload may carry. Anything else is dropped.
type schema struct {
	Numbers []numberField
	Texts   []textField
}

var gridDataSchema = schema{
	Numbers: []numberField{
		{Key: "totalLoad", Min: 0, Max: 100000},
		{Key: "renewablePercentage", Min: 0, Max: 100},
		{Key: "frequency", Min: 0, Max: 100},
		{Key: "voltage", Min: 0, Max: 1000},
		{Key: "activeAlerts", Min: 0, Max: 1000, Integer: true},
	},
	Texts: []textField{
		{Key: "region", MaxLen: 100},
		{Key: "timestamp", MaxLen: 64},
	},
}

var anomalyDataSchema = schema{
	Numbers: []numberField{
		{Key: "value", Min: -1e6, Max: 1e6},
	},
	Texts: []textField{
		{Key: "type", MaxLen: 100},
		{Key: "severity", MaxLen: 20},
		{Key: "location", MaxLen: 100},
		{Key: "description", MaxLen: 500},
		{Key: "timestamp", MaxLen: 64},
	},
}

// sanitize coerces and bounds every known field present in raw. Numeric
// values that cannot be parsed become 0 before clamping.
func (s schema) sanitize(raw map[string]any) map[string]any {
	out := make(map[string]any, len(s.Numbers)+len(s.Texts))
	for _, f := range s.Numbers {
		v, ok := raw[f.Key]
		if !ok {
			continue
		}
		n := clamp(toNumber(v), f.Min, f.Max)
		if f.Integer {
			out[f.Key] = int64(math.Round(n))
			continue
		}
		out[f.Key] = n
	}
	for _, f := range s.Texts {
		v, ok := raw[f.Key]
		if !ok || v == nil {
			continue
		}
		out[f.Key] = truncate(toText(v), f.MaxLen)
	}
	return out
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func toText(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
