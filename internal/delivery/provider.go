package delivery

import (
	"context"
	"fmt"
	"log"
)

// Provider defines the standard interface for all outbound delivery
// variants. The OAuth-token Gmail sender, the password-authenticated SMTP
// sender and the Slack sender are interchangeable behind this contract.
type Provider interface {
	// Name identifies the provider in logs and dispatch details.
	Name() string

	// Available reports whether the provider has the credentials it needs.
	Available() bool

	// Deliver sends one message. It returns a provider-specific error on
	// failure; callers convert that into an in-band result.
	Deliver(ctx context.Context, to, subject, body string) error
}

// Registry holds the mapping between provider names and their
// implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates a new delivery provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider implementation to the registry.
func (r *Registry) Register(p Provider) {
	if _, exists := r.providers[p.Name()]; exists {
		log.Printf("WARN [DeliveryRegistry] Provider %q is already registered. Overwriting.", p.Name())
	}
	r.providers[p.Name()] = p
	log.Printf("[DeliveryRegistry] Registered delivery provider: %s", p.Name())
}

// Get retrieves a provider from the registry by name.
func (r *Registry) Get(name string) (Provider, error) {
	p, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("no delivery provider registered for name: %s", name)
	}
	return p, nil
}
