package service

import (
	"testing"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/google/uuid"
)

func TestFeedSubscriberReceivesPublish(t *testing.T) {
	feed := NewInvoiceFeed()
	userID := uuid.New()

	ch, cancel := feed.Subscribe(userID)
	defer cancel()

	feed.Publish(userID, []entity.Invoice{{CustomerName: "Asha"}})

	snapshot := <-ch
	if len(snapshot) != 1 || snapshot[0].CustomerName != "Asha" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestFeedLatestSnapshotWins(t *testing.T) {
	feed := NewInvoiceFeed()
	userID := uuid.New()

	ch, cancel := feed.Subscribe(userID)
	defer cancel()

	// Two publishes before the subscriber reads: the stale one is dropped
	feed.Publish(userID, []entity.Invoice{{CustomerName: "old"}})
	feed.Publish(userID, []entity.Invoice{{CustomerName: "new"}, {CustomerName: "newer"}})

	snapshot := <-ch
	if len(snapshot) != 2 || snapshot[0].CustomerName != "new" {
		t.Fatalf("expected the latest snapshot, got %+v", snapshot)
	}

	select {
	case extra := <-ch:
		if extra != nil {
			t.Fatalf("no further snapshot should be buffered, got %+v", extra)
		}
	default:
	}
}

func TestFeedPublishIsScopedToUser(t *testing.T) {
	feed := NewInvoiceFeed()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh, aliceCancel := feed.Subscribe(alice)
	defer aliceCancel()
	_, bobCancel := feed.Subscribe(bob)
	defer bobCancel()

	feed.Publish(bob, []entity.Invoice{{CustomerName: "bob's"}})

	select {
	case got := <-aliceCh:
		t.Fatalf("alice should not see bob's snapshot, got %+v", got)
	default:
	}
}

func TestFeedCancelClosesChannelAndIsIdempotent(t *testing.T) {
	feed := NewInvoiceFeed()
	userID := uuid.New()

	ch, cancel := feed.Subscribe(userID)
	if feed.SubscriberCount(userID) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", feed.SubscriberCount(userID))
	}

	cancel()
	cancel() // safe to call again

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
	if feed.SubscriberCount(userID) != 0 {
		t.Fatalf("expected 0 subscribers, got %d", feed.SubscriberCount(userID))
	}

	// Publishing to a user with no subscribers must not panic
	feed.Publish(userID, []entity.Invoice{{}})
}

func TestFeedMultipleSubscribersEachGetSnapshot(t *testing.T) {
	feed := NewInvoiceFeed()
	userID := uuid.New()

	ch1, cancel1 := feed.Subscribe(userID)
	defer cancel1()
	ch2, cancel2 := feed.Subscribe(userID)
	defer cancel2()

	if feed.SubscriberCount(userID) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", feed.SubscriberCount(userID))
	}

	feed.Publish(userID, []entity.Invoice{{CustomerName: "shared"}})

	for i, ch := range []<-chan []entity.Invoice{ch1, ch2} {
		snapshot := <-ch
		if len(snapshot) != 1 || snapshot[0].CustomerName != "shared" {
			t.Fatalf("subscriber %d got unexpected snapshot: %+v", i, snapshot)
		}
	}
}
