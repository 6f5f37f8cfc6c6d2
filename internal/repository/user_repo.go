// internal/repository/user_repo.go
package repository

import (
	"context"

	"banking-service/internal/domain"

	"github.com/shopspring/decimal"
)

// SearchFilter narrows and pages a user search. Zero-valued fields are
// ignored. SortField must already be a whitelisted column name.
type SearchFilter struct {
	BirthYear *int
	Phone     string
	Name      string
	Email     string
	Limit     int
	Offset    int
	SortField string
	SortAsc   bool
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// Create adds a new user using the provided DBExecutor.
	Create(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetByID retrieves a user by their ID.
	GetByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetByLogin retrieves a user by their unique login.
	GetByLogin(ctx context.Context, q DBExecutor, login string) (*domain.User, error)
	// GetByIDForUpdate retrieves a user by ID with a row lock; must be called
	// inside a transaction.
	GetByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetByLoginForUpdate retrieves a user by login with a row lock; must be
	// called inside a transaction.
	GetByLoginForUpdate(ctx context.Context, q DBExecutor, login string) (*domain.User, error)
	// ExistsByLogin reports whether a user with the given login exists.
	ExistsByLogin(ctx context.Context, q DBExecutor, login string) (bool, error)
	// UpdateBalance sets the balance of a specific user.
	UpdateBalance(ctx context.Context, q DBExecutor, userID int64, balance decimal.Decimal) error
	// All returns every user record.
	All(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// Search returns a filtered page of users and the total match count.
	Search(ctx context.Context, q DBExecutor, filter SearchFilter) ([]domain.User, int64, error)
}
