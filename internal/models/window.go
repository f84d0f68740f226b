package models

import (
	"fmt"
	"time"
)

// ISOLayout is the canonical wire form of window bounds.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// TimeWindow is a closed commit time range in UTC. Relative is set when the
// window came from a relative spec such as "7d".
type TimeWindow struct {
	Since    time.Time `json:"-"`
	Until    time.Time `json:"-"`
	Relative string    `json:"relative,omitempty"`
}

// SinceISO returns the lower bound in canonical form
func (w TimeWindow) SinceISO() string {
	return w.Since.UTC().Format(ISOLayout)
}

// UntilISO returns the upper bound in canonical form
func (w TimeWindow) UntilISO() string {
	return w.Until.UTC().Format(ISOLayout)
}

// Describe renders the window the way report titles mention it
func (w TimeWindow) Describe() string {
	if w.Relative != "" {
		return "last " + w.Relative
	}
	return fmt.Sprintf("from %s to %s", w.SinceISO(), w.UntilISO())
}
