package delivery

import (
	"context"
	"fmt"
	"log"

	"inboxpilot-backend/internal/extract"
)

// Result reports the outcome of one dispatch attempt. Detail is a
// human-readable string suitable for surfacing to the user.
type Result struct {
	Sent   bool
	Detail string
}

// Dispatcher converts extracted fields into a dispatch attempt against the
// configured provider. Dispatch never panics and never returns an error:
// every failure becomes a Result with Sent=false.
type Dispatcher struct {
	registry     *Registry
	providerName string
}

// NewDispatcher creates a Dispatcher bound to the named provider.
func NewDispatcher(registry *Registry, providerName string) *Dispatcher {
	return &Dispatcher{registry: registry, providerName: providerName}
}

// Dispatch attempts delivery of the extracted fields.
func (d *Dispatcher) Dispatch(ctx context.Context, fields extract.Fields) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR [Dispatcher] Recovered from panic during dispatch: %v", r)
			result = Result{Sent: false, Detail: fmt.Sprintf("Delivery failed unexpectedly: %v", r)}
		}
	}()

	provider, err := d.registry.Get(d.providerName)
	if err != nil {
		log.Printf("ERROR [Dispatcher] %v", err)
		return Result{Sent: false, Detail: fmt.Sprintf("Delivery provider %q is not registered", d.providerName)}
	}

	if !provider.Available() {
		log.Printf("WARN [Dispatcher] Provider %q not available, skipping dispatch", provider.Name())
		return Result{Sent: false, Detail: "Delivery service not available. Please check credentials."}
	}

	if err := provider.Deliver(ctx, fields.Recipient, fields.Subject, fields.Body); err != nil {
		log.Printf("ERROR [Dispatcher] Delivery via %q failed: %v", provider.Name(), err)
		return Result{Sent: false, Detail: fmt.Sprintf("Failed to send email to %s: %v", fields.Recipient, err)}
	}

	log.Printf("[Dispatcher] Email sent to %s via %q", fields.Recipient, provider.Name())
	return Result{Sent: true, Detail: fmt.Sprintf("Email sent to %s: %s", fields.Recipient, fields.Subject)}
}
