//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"sync"

	"rental-engine/internal/usecase/commands"
	"rental-engine/internal/usecase/shared"
)

// Fakes stand in for object storage, Stripe, SendGrid and Kafka.
type Fakes struct {
	Documents fakeDocumentStore
	Checkout  fakeCheckout
	Mailer    fakeMailer
	Events    fakeEvents
}

type fakeDocumentStore struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeDocumentStore) Put(_ context.Context, key, _ string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeDocumentStore) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

type fakeCheckout struct {
	mu       sync.Mutex
	requests []commands.CheckoutRequest
}

func (f *fakeCheckout) CreateCheckout(_ context.Context, req commands.CheckoutRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return fmt.Sprintf("https://checkout.test/%s", req.BookingID), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []shared.EmailMessage
}

func (f *fakeMailer) Send(_ context.Context, msg shared.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeEvents) Publish(_ context.Context, eventType, _ string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
	return nil
}
