package health

import "context"

// Kind selects which endpoint a check belongs to.
type Kind int

const (
	Readiness Kind = iota
	Liveness
)

func (k Kind) String() string {
	switch k {
	case Readiness:
		return "readiness"
	case Liveness:
		return "liveness"
	default:
		return "unknown"
	}
}

// Check is a single health procedure.
type Check interface {
	// Name identifies the check in reports and metrics.
	Name() string
	// Call runs the check. Implementations must be safe for concurrent use.
	Call(ctx context.Context) Response
}

type funcCheck struct {
	name string
	fn   func(ctx context.Context) Response
}

func (f funcCheck) Name() string { return f.name }
func (f funcCheck) Call(ctx context.Context) Response { return f.fn(ctx) }

// CheckFunc adapts a function into a named Check.
func CheckFunc(name string, fn func(ctx context.Context) Response) Check {
	return funcCheck{name: name, fn: fn}
}
