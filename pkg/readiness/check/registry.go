package check

import (
	"fmt"
)

// Registry holds the checks for one command invocation, in registration
// order. Registration order is also execution and report order.
type Registry struct {
	checks []Check
	byID   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]struct{}),
	}
}

// Register adds a check, rejecting duplicate IDs.
func (r *Registry) Register(c Check) error {
	if _, exists := r.byID[c.ID()]; exists {
		return fmt.Errorf("check with ID %s already registered", c.ID())
	}

	r.byID[c.ID()] = struct{}{}
	r.checks = append(r.checks, c)

	return nil
}

// MustRegister registers a check and panics on failure. Use during command
// construction where a duplicate registration is unrecoverable.
func (r *Registry) MustRegister(c Check) {
	if err := r.Register(c); err != nil {
		panic(fmt.Sprintf("failed to register check %s: %v", c.ID(), err))
	}
}

// List returns the registered checks in registration order.
func (r *Registry) List() []Check {
	out := make([]Check, len(r.checks))
	copy(out, r.checks)

	return out
}
