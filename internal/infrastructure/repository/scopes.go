package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// UserIDKey is the context key carrying the authenticated user's ID.
// Services stash it before calling repositories so owner-scoped queries
// never depend on handler plumbing.
const UserIDKey ctxKey = "user_id"

// OwnerScope returns a GORM scope that filters rows by the owning user.
// If the user context is missing the query matches nothing, which prevents
// accidental cross-user data access.
func OwnerScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", userID)
	}
}

// WithUser adds the authenticated user's ID to the context
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the authenticated user's ID from the context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
