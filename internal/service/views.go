// internal/service/views.go
package service

import (
	"context"
	"fmt"

	"banking-service/internal/domain"
	"banking-service/internal/repository"

	"github.com/shopspring/decimal"
)

// UserSummary is the view returned by profile and ledger operations. It
// carries the owned contact sets but never the credential.
type UserSummary struct {
	ID           int64            `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	BirthYear    int              `json:"birth_year"`
	Login        string           `json:"login"`
	Balance      decimal.Decimal  `json:"balance"`
	Emails       []domain.Contact `json:"emails"`
	PhoneNumbers []domain.Contact `json:"phone_numbers"`
}

// loadUserSummary builds the summary view for a user, fetching both contact
// sets through the provided executor (so it participates in the caller's
// transaction when one is open).
func loadUserSummary(ctx context.Context, q repository.DBExecutor, emailRepo, phoneRepo repository.ContactRepository, user *domain.User) (*UserSummary, error) {
	emails, err := emailRepo.ListByUserID(ctx, q, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emails for user %d: %w", user.ID, err)
	}
	phones, err := phoneRepo.ListByUserID(ctx, q, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load phone numbers for user %d: %w", user.ID, err)
	}
	return &UserSummary{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		BirthYear:    user.BirthYear,
		Login:        user.Login,
		Balance:      user.Balance,
		Emails:       emails,
		PhoneNumbers: phones,
	}, nil
}
