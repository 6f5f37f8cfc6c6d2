// internal/repository/contact_repo.go
package repository

import (
	"context"

	"banking-service/internal/domain"
)

// ContactRepository defines the interface for contact data operations. One
// implementation exists per contact kind (email, phone number); both expose
// the same shape so the contact policy can be written once.
type ContactRepository interface {
	// GetByValue retrieves a contact by its globally unique value.
	GetByValue(ctx context.Context, q DBExecutor, value string) (*domain.Contact, error)
	// ExistsByValue reports whether the value exists anywhere in the store.
	ExistsByValue(ctx context.Context, q DBExecutor, value string) (bool, error)
	// ListByUserID returns all contacts of this kind owned by the user.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Contact, error)
	// CountByUserID returns how many contacts of this kind the user owns.
	CountByUserID(ctx context.Context, q DBExecutor, userID int64) (int64, error)
	// Create inserts a new contact record.
	Create(ctx context.Context, q DBExecutor, contact *domain.Contact) error
	// UpdateValue mutates an existing record's value in place, preserving its
	// identity.
	UpdateValue(ctx context.Context, q DBExecutor, id int64, newValue string) error
	// Delete removes the contact record with the given ID.
	Delete(ctx context.Context, q DBExecutor, id int64) error
}
