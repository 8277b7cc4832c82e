package datamodel

// Derive computes the externally visible value of a leaf from its owning
// container. stored is the leaf's own stored value.
type Derive func(c *Container, stored string) string

// ThresholdStatus derives a status from a measure compared against a
// threshold. Without a threshold the stored value is returned; with a
// threshold but no measure the result is "unknown".
func ThresholdStatus(threshold, measure, met, unmet string) Derive {
	return func(c *Container, stored string) string {
		raw, _ := c.leafValue(threshold)
		limit, ok := parseReal(raw)
		if !ok {
			return stored
		}
		raw, _ = c.leafValue(measure)
		value, ok := parseReal(raw)
		if !ok {
			return "unknown"
		}
		if value >= limit {
			return met
		}
		return unmet
	}
}

var (
	deriveCompletion = ThresholdStatus("completion_threshold", "progress_measure", "completed", "incomplete")
	deriveSuccess    = ThresholdStatus("scaled_passing_score", "score.scaled", "passed", "failed")
)
