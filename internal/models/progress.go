package models

import "time"

// BatchProgress tracks a bounded pool run
type BatchProgress struct {
	Total          int       `json:"total"`
	Processed      int       `json:"processed"`
	Failed         int       `json:"failed"`
	StartTime      time.Time `json:"start_time"`
	LastUpdateTime time.Time `json:"last_update_time"`
	Errors         []error   `json:"-"`
}

// Done reports whether every item was attempted
func (p *BatchProgress) Done() bool {
	return p.Processed+p.Failed >= p.Total
}
