package health

import (
	"context"
	"time"
)

// Uptime is a liveness check that is UP while the process can serve it.
type Uptime struct {
	started time.Time
	now     func() time.Time
}

// NewUptime starts the uptime clock at started.
func NewUptime(started time.Time) *Uptime {
	return &Uptime{started: started, now: time.Now}
}

func (u *Uptime) Name() string {
	return "Uptime"
}

func (u *Uptime) Call(_ context.Context) Response {
	elapsed := u.now().Sub(u.started).Truncate(time.Second)
	return Named(u.Name()).Up().WithData("uptime", elapsed.String()).Build()
}
