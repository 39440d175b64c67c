package planner

import "fmt"

// Config defines planner-related settings.
type Config struct {
	// Policy selects the allocation strategy: "greedy" or "fairness".
	Policy string `json:"policy"`
	// LargeTaskThresholdHours is the estimate above which tasks are flagged
	// for breakdown.
	LargeTaskThresholdHours float64 `json:"large_task_threshold_hours"`
	// Scorer selects the priority formula: "linear" or "deadline_weighted".
	Scorer string `json:"scorer"`
	// NoDueDateSentinelDays is the days-until-due used for tasks without a
	// deadline under the linear scorer.
	NoDueDateSentinelDays int `json:"no_due_date_sentinel_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Policy == "" {
		c.Policy = string(PolicyGreedy)
	}
	if c.LargeTaskThresholdHours <= 0 {
		c.LargeTaskThresholdHours = DefaultLargeTaskThreshold
	}
	if c.Scorer == "" {
		c.Scorer = "linear"
	}
	if c.NoDueDateSentinelDays <= 0 {
		c.NoDueDateSentinelDays = 9999
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch Policy(c.Policy) {
	case PolicyGreedy, PolicyFairness:
	default:
		return fmt.Errorf("unknown policy %s", c.Policy)
	}
	switch c.Scorer {
	case "linear", "deadline_weighted":
	default:
		return fmt.Errorf("unknown scorer %s", c.Scorer)
	}
	return nil
}
