package guard

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
)

// Policy is the ordered requirement list for one operation. Every
// requirement must hold.
type Policy []Requirement

// Registry is the static dispatch table from operation identifier to
// policy. Operations register once during setup; checking an operation
// nobody registered is a denial, not a pass.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[string]Policy)}
}

// Register binds a policy to operation. Registering the same operation
// twice is a configuration error.
func (r *Registry) Register(operation string, requirements ...Requirement) error {
	if operation == "" {
		return fmt.Errorf("%w: guard operation name is empty", authc.ErrConfiguration)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.policies[operation]; exists {
		return fmt.Errorf("%w: guard operation %q registered twice", authc.ErrConfiguration, operation)
	}
	r.policies[operation] = requirements
	return nil
}

// MustRegister is Register for static setup code, panicking on
// misconfiguration.
func (r *Registry) MustRegister(operation string, requirements ...Requirement) {
	if err := r.Register(operation, requirements...); err != nil {
		panic(err)
	}
}

// Policy returns the registered policy for operation.
func (r *Registry) Policy(operation string) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	policy, ok := r.policies[operation]
	return policy, ok
}

// Check evaluates operation's policy against s, failing on the first
// unmet requirement.
func (r *Registry) Check(ctx context.Context, operation string, s Subject) error {
	policy, ok := r.Policy(operation)
	if !ok {
		return fmt.Errorf("%w: no guard policy registered for operation %q", authz.ErrUnauthorized, operation)
	}
	for _, requirement := range policy {
		if err := requirement.Check(ctx, s); err != nil {
			return fmt.Errorf("operation %q: %w", operation, err)
		}
	}
	return nil
}

// Protect wraps fn so the policy for operation runs first; fn is never
// invoked on denial.
func (r *Registry) Protect(operation string, fn func(ctx context.Context, s Subject) error) func(ctx context.Context, s Subject) error {
	return func(ctx context.Context, s Subject) error {
		if err := r.Check(ctx, operation, s); err != nil {
			return err
		}
		return fn(ctx, s)
	}
}
