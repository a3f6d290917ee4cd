// Package instances manages remote chaos stream-proxy instances through an
// external CLI. The CLI is an opaque collaborator: its failures are
// forwarded verbatim to the caller.
package instances

import "context"

// Instance describes one remote chaos stream-proxy deployment
type Instance struct {
	Name string `json:"name"`
	URL  string `json:"url"`

	// StatefulMode reports whether the instance tracks playback position,
	// which relative-sequence targeting requires.
	StatefulMode bool `json:"statefulMode"`
}

// Interface defines the contract for instance lifecycle management
type Interface interface {
	// List returns all remote instances
	List(ctx context.Context) ([]Instance, error)

	// Create provisions a new instance and returns its details
	Create(ctx context.Context, name string, statefulMode bool) (Instance, error)

	// Delete removes an instance by name
	Delete(ctx context.Context, name string) error

	// Describe returns the details of one instance by name
	Describe(ctx context.Context, name string) (Instance, error)
}
