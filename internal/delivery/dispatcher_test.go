package delivery

import (
	"context"
	"errors"
	"testing"

	"inboxpilot-backend/internal/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	to, subject, body string
}

type fakeProvider struct {
	name        string
	unavailable bool
	deliverErr  error
	sent        []sentMessage
}

var _ Provider = (*fakeProvider)(nil)

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return !f.unavailable }

func (f *fakeProvider) Deliver(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMessage{to: to, subject: subject, body: body})
	return f.deliverErr
}

func testFields() extract.Fields {
	return extract.Fields{
		Recipient: "bob@x.com",
		Subject:   "Greetings",
		Body:      "Hello Bob, just checking in.",
	}
}

func TestDispatchSuccess(t *testing.T) {
	provider := &fakeProvider{name: "fake"}
	registry := NewRegistry()
	registry.Register(provider)
	dispatcher := NewDispatcher(registry, "fake")

	result := dispatcher.Dispatch(context.Background(), testFields())

	assert.True(t, result.Sent)
	assert.Equal(t, "Email sent to bob@x.com: Greetings", result.Detail)
	require.Len(t, provider.sent, 1)
	assert.Equal(t, "bob@x.com", provider.sent[0].to)
	assert.Equal(t, "Greetings", provider.sent[0].subject)
	assert.Equal(t, "Hello Bob, just checking in.", provider.sent[0].body)
}

func TestDispatchProviderFailure(t *testing.T) {
	provider := &fakeProvider{name: "fake", deliverErr: errors.New("smtp connection refused")}
	registry := NewRegistry()
	registry.Register(provider)
	dispatcher := NewDispatcher(registry, "fake")

	result := dispatcher.Dispatch(context.Background(), testFields())

	assert.False(t, result.Sent)
	assert.Contains(t, result.Detail, "Failed to send email to bob@x.com")
	assert.Contains(t, result.Detail, "smtp connection refused")
}

func TestDispatchProviderUnavailable(t *testing.T) {
	provider := &fakeProvider{name: "fake", unavailable: true}
	registry := NewRegistry()
	registry.Register(provider)
	dispatcher := NewDispatcher(registry, "fake")

	result := dispatcher.Dispatch(context.Background(), testFields())

	assert.False(t, result.Sent)
	assert.Equal(t, "Delivery service not available. Please check credentials.", result.Detail)
	assert.Empty(t, provider.sent)
}

func TestDispatchUnregisteredProvider(t *testing.T) {
	dispatcher := NewDispatcher(NewRegistry(), "missing")

	result := dispatcher.Dispatch(context.Background(), testFields())

	assert.False(t, result.Sent)
	assert.Contains(t, result.Detail, "not registered")
}

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry()
	provider := &fakeProvider{name: "fake"}
	registry.Register(provider)

	got, err := registry.Get("fake")
	require.NoError(t, err)
	assert.Same(t, provider, got)

	_, err = registry.Get("other")
	assert.Error(t, err)
}

func TestRegistryReRegisterOverwrites(t *testing.T) {
	registry := NewRegistry()
	first := &fakeProvider{name: "fake"}
	second := &fakeProvider{name: "fake"}
	registry.Register(first)
	registry.Register(second)

	got, err := registry.Get("fake")
	require.NoError(t, err)
	assert.Same(t, second, got)
}
