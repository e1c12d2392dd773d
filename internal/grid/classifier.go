package grid

import "math"

// Band maps a value range to a status. Any subset of the bounds may be set;
// a band with no bounds matches every value. Each bound keeps its own
// inclusivity so metrics can mix "> 85" and ">= 0.3" style thresholds.
type Band struct {
	Status Status
	LT     *float64
	LE     *float64
	GT     *float64
	GE     *float64
}

// Contains reports whether x satisfies every bound set on the band.
func (b Band) Contains(x float64) bool {
	if b.LT != nil && !(x < *b.LT) {
		return false
	}
	if b.LE != nil && !(x <= *b.LE) {
		return false
	}
	if b.GT != nil && !(x > *b.GT) {
		return false
	}
	if b.GE != nil && !(x >= *b.GE) {
		return false
	}
	return true
}

// Rule is the ordered band list for one metric. When Reference is set the
// bands are tested against |value - Reference| instead of the raw value.
type Rule struct {
	Reference *float64
	Bands     []Band
}

// Classify returns the status of the first band containing the value.
func (r Rule) Classify(v float64) Status {
	if math.IsNaN(v) {
		return StatusUnknown
	}
	for _, b := range r.Bands {
		if r.Reference != nil && b.containsAround(v, *r.Reference) {
			return b.Status
		}
		if r.Reference == nil && b.Contains(v) {
			return b.Status
		}
	}
	return StatusUnknown
}

// containsAround reports whether |v - ref| satisfies the band. The bounds are
// shifted onto the reference rather than subtracting from v, so a value
// written exactly at ref ± bound stays on its declared edge.
func (b Band) containsAround(v, ref float64) bool {
	if b.LT != nil && !(v > ref-*b.LT && v < ref+*b.LT) {
		return false
	}
	if b.LE != nil && !(v >= ref-*b.LE && v <= ref+*b.LE) {
		return false
	}
	if b.GT != nil && !(v > ref+*b.GT || v < ref-*b.GT) {
		return false
	}
	if b.GE != nil && !(v >= ref+*b.GE || v <= ref-*b.GE) {
		return false
	}
	return true
}

// Classifier owns the per-metric rule table. It is immutable once built.
type Classifier struct {
	rules map[string]Rule
}

// NewClassifier copies the given rules into a new classifier.
func NewClassifier(rules map[string]Rule) *Classifier {
	c := &Classifier{rules: make(map[string]Rule, len(rules))}
	for name, r := range rules {
		bands := make([]Band, len(r.Bands))
		copy(bands, r.Bands)
		c.rules[name] = Rule{Reference: r.Reference, Bands: bands}
	}
	return c
}

// Classify maps a metric value to its status, or StatusUnknown if the metric
// has no rule or no band matches.
func (c *Classifier) Classify(metric string, value float64) Status {
	r, ok := c.rules[metric]
	if !ok {
		return StatusUnknown
	}
	return r.Classify(value)
}

// Rule returns the rule registered for a metric.
func (c *Classifier) Rule(metric string) (Rule, bool) {
	r, ok := c.rules[metric]
	return r, ok
}

// Float returns a pointer to v, handy for building bands in code.
func Float(v float64) *float64 { return &v }
