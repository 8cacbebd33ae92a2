// Package health runs readiness and liveness checks and aggregates their results.
package health

import "maps"

// Status is the state reported by a check or a whole report.
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// Response is the result of a single check invocation.
type Response struct {
	Name   string
	Status Status
	Data   map[string]string
}

// IsUp reports whether the response status is UP.
func (r Response) IsUp() bool {
	return r.Status == StatusUp
}

// ResponseBuilder assembles a Response. The zero status is DOWN.
type ResponseBuilder struct {
	name   string
	status Status
	data   map[string]string
}

// Named starts a response for the check called name.
func Named(name string) *ResponseBuilder {
	return &ResponseBuilder{name: name, status: StatusDown}
}

// WithData adds a key/value annotation.
func (b *ResponseBuilder) WithData(key, value string) *ResponseBuilder {
	if b.data == nil {
		b.data = make(map[string]string, 1)
	}
	b.data[key] = value
	return b
}

func (b *ResponseBuilder) Up() *ResponseBuilder {
	b.status = StatusUp
	return b
}

func (b *ResponseBuilder) Down() *ResponseBuilder {
	b.status = StatusDown
	return b
}

// State sets UP when up is true, DOWN otherwise.
func (b *ResponseBuilder) State(up bool) *ResponseBuilder {
	if up {
		return b.Up()
	}
	return b.Down()
}

// Build returns the response. The data map is copied so later builder
// calls do not leak into responses already handed out.
func (b *ResponseBuilder) Build() Response {
	return Response{
		Name:   b.name,
		Status: b.status,
		Data:   maps.Clone(b.data),
	}
}
