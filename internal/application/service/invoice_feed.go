package service

import (
	"sync"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/google/uuid"
)

// InvoiceFeed fans out full invoice-list snapshots to live subscribers.
// Each subscriber gets a buffered channel of size one: when a subscriber
// is slow the stale snapshot is dropped and replaced, so consumers always
// converge on the latest state and publishers never block.
type InvoiceFeed struct {
	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan []entity.Invoice
}

// NewInvoiceFeed creates an empty feed
func NewInvoiceFeed() *InvoiceFeed {
	return &InvoiceFeed{subs: make(map[uuid.UUID]map[int]chan []entity.Invoice)}
}

// Subscribe registers a listener for one user's invoice list. The returned
// cancel function is idempotent and must be called when the listener goes
// away; it closes the channel and releases the registration.
func (f *InvoiceFeed) Subscribe(userID uuid.UUID) (<-chan []entity.Invoice, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs[userID] == nil {
		f.subs[userID] = make(map[int]chan []entity.Invoice)
	}
	id := f.nextID
	f.nextID++

	ch := make(chan []entity.Invoice, 1)
	f.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if subs, ok := f.subs[userID]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(ch)
					if len(subs) == 0 {
						delete(f.subs, userID)
					}
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the user, replacing
// any undelivered previous snapshot.
func (f *InvoiceFeed) Publish(userID uuid.UUID, invoices []entity.Invoice) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs[userID] {
		select {
		case ch <- invoices:
		default:
			// Drop the stale snapshot, then deliver the fresh one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- invoices:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a user
func (f *InvoiceFeed) SubscriberCount(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[userID])
}
