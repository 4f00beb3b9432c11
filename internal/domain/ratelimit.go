package domain

import "time"

// GlobalRateKey names the bucket shared by every speech-to-text request.
const GlobalRateKey = "global"

// RateDecision is the outcome of one rate governor check.
type RateDecision struct {
	Allowed   bool          `json:"allowed"`
	Remaining int           `json:"remaining"`
	ResetAt   time.Time     `json:"resetAt"`
	Limit     int           `json:"-"`
	Window    time.Duration `json:"-"`
}

// Err returns a *RateLimitError for a denied decision, nil otherwise.
func (d RateDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return &RateLimitError{Limit: d.Limit, Window: d.Window, ResetAt: d.ResetAt}
}
