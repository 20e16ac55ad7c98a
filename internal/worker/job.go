package worker

import (
	"time"
)

// Job asks the worker to run one mirror + retention pass.
type Job struct {
	Reason string // "startup", "source changed", "schedule"
	At     time.Time
}
