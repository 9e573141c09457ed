package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps cheap process-local counters exposed on /metrics.
type Collector struct {
	startedAt time.Time

	requests     atomic.Int64
	errors4xx    atomic.Int64
	errors5xx    atomic.Int64
	submissions  atomic.Int64
	sessionsOpen atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{startedAt: time.Now().UTC()}
}

// ObserveRequest counts a completed request. Error classes are tallied by
// ObserveError through the response package, not here, so the two never
// double count.
func (c *Collector) ObserveRequest() {
	c.requests.Add(1)
}

func (c *Collector) ObserveError(status int) {
	if status >= 500 {
		c.errors5xx.Add(1)
	} else if status >= 400 {
		c.errors4xx.Add(1)
	}
}

func (c *Collector) ObserveSubmission() {
	c.submissions.Add(1)
}

func (c *Collector) ObserveLogin() {
	c.sessionsOpen.Add(1)
}

type Snapshot struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	Requests      int64 `json:"requests"`
	Errors4xx     int64 `json:"errors_4xx"`
	Errors5xx     int64 `json:"errors_5xx"`
	Submissions   int64 `json:"submissions"`
	Logins        int64 `json:"logins"`
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds: int64(time.Since(c.startedAt).Seconds()),
		Requests:      c.requests.Load(),
		Errors4xx:     c.errors4xx.Load(),
		Errors5xx:     c.errors5xx.Load(),
		Submissions:   c.submissions.Load(),
		Logins:        c.sessionsOpen.Load(),
	}
}
