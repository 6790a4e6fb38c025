package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/infrastructure/repository"
	"github.com/buzzcafe/billing-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.MenuItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func menuItem(name string, priceCents int64) *entity.MenuItem {
	return &entity.MenuItem{ID: uuid.New(), UserID: uuid.New(), Name: name, Price: priceCents}
}

func TestCartStoreAddSameItemIncrementsQty(t *testing.T) {
	store := NewCartStore()
	userID := uuid.New()
	tea := menuItem("Tea", 1500)

	store.AddItem(userID, tea)
	cart := store.AddItem(userID, tea)

	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Qty != 2 {
		t.Fatalf("expected qty 2, got %d", cart.Lines[0].Qty)
	}
	if cart.Total() != 3000 {
		t.Fatalf("expected total 3000, got %d", cart.Total())
	}
}

func TestCartStoreDecreaseRemovesLineAtZero(t *testing.T) {
	store := NewCartStore()
	userID := uuid.New()
	tea := menuItem("Tea", 1500)

	store.AddItem(userID, tea)
	store.AddItem(userID, tea)

	cart, ok := store.DecreaseQty(userID, tea.ID)
	if !ok || cart.Lines[0].Qty != 1 {
		t.Fatalf("expected qty 1 after decrease, got %+v", cart.Lines)
	}

	cart, ok = store.DecreaseQty(userID, tea.ID)
	if !ok {
		t.Fatal("expected decrease to find the line")
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestCartStoreRemoveDeletesRegardlessOfQty(t *testing.T) {
	store := NewCartStore()
	userID := uuid.New()
	coffee := menuItem("Coffee", 2000)

	for i := 0; i < 5; i++ {
		store.AddItem(userID, coffee)
	}

	cart, ok := store.RemoveItem(userID, coffee.ID)
	if !ok || len(cart.Lines) != 0 {
		t.Fatalf("expected empty cart after remove, got %+v", cart.Lines)
	}
}

func TestCartStoreSnapshotIsolation(t *testing.T) {
	store := NewCartStore()
	userID := uuid.New()
	tea := menuItem("Tea", 1500)
	store.AddItem(userID, tea)

	snap := store.Snapshot(userID)
	snap.Lines[0].Qty = 99

	if fresh := store.Snapshot(userID); fresh.Lines[0].Qty != 1 {
		t.Fatalf("snapshot mutation leaked into store: qty %d", fresh.Lines[0].Qty)
	}
}

func TestCartStoreIsPerUser(t *testing.T) {
	store := NewCartStore()
	alice := uuid.New()
	bob := uuid.New()
	tea := menuItem("Tea", 1500)

	store.AddItem(alice, tea)

	if cart := store.Snapshot(bob); !cart.IsEmpty() {
		t.Fatalf("expected bob's cart empty, got %d lines", len(cart.Lines))
	}
	store.Clear(alice)
	if cart := store.Snapshot(alice); !cart.IsEmpty() {
		t.Fatal("expected alice's cart empty after clear")
	}
}

func TestCartLineSnapshotSurvivesMenuEdit(t *testing.T) {
	db := setupCartTestDB(t)
	menuRepo := repository.NewMenuItemRepository(db)
	svc := NewCartService(NewCartStore(), menuRepo)
	ctx := context.Background()

	userID := uuid.New()
	item := &entity.MenuItem{UserID: userID, Name: "Masala Dosa", Price: 9000, Category: "South Indian"}
	if err := menuRepo.Create(ctx, item); err != nil {
		t.Fatalf("create menu item: %v", err)
	}

	if _, err := svc.AddItem(ctx, userID, item.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// Edit the menu item after it is in the cart
	item.Name = "Paper Dosa"
	item.Price = 12000
	if err := menuRepo.Update(ctx, item); err != nil {
		t.Fatalf("update menu item: %v", err)
	}

	cart := svc.GetCart(ctx, userID)
	if cart.Lines[0].Name != "Masala Dosa" || cart.Lines[0].Price != 9000 {
		t.Fatalf("cart line should keep its snapshot, got %+v", cart.Lines[0])
	}
}

func TestCartServiceAddUnknownItem(t *testing.T) {
	db := setupCartTestDB(t)
	svc := NewCartService(NewCartStore(), repository.NewMenuItemRepository(db))

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown menu item")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 404 {
		t.Fatalf("expected 404, got %d", appErr.Code)
	}
}

func TestCartServiceQtyOpsOnMissingLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := NewCartService(NewCartStore(), repository.NewMenuItemRepository(db))
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.IncreaseQty(ctx, userID, uuid.New()); err == nil {
		t.Fatal("expected error increasing a missing line")
	}
	if _, err := svc.DecreaseQty(ctx, userID, uuid.New()); err == nil {
		t.Fatal("expected error decreasing a missing line")
	}
	if _, err := svc.RemoveItem(ctx, userID, uuid.New()); err == nil {
		t.Fatal("expected error removing a missing line")
	}
}
