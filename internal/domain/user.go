// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// User represents a bank account holder. Balance and InitialDeposit are
// NUMERIC(12, 3) in the DB; InitialDeposit is fixed at registration and is
// the basis for the accrual ceiling.
type User struct {
	ID             int64           `db:"id" json:"id"`
	FirstName      string          `db:"first_name" json:"first_name"`
	LastName       string          `db:"last_name" json:"last_name"`
	BirthYear      int             `db:"birth_year" json:"birth_year"`
	Login          string          `db:"login" json:"login"` // Unique login
	PasswordHash   string          `db:"password_hash" json:"-"`
	Balance        decimal.Decimal `db:"balance" json:"balance"`
	InitialDeposit decimal.Decimal `db:"initial_deposit" json:"initial_deposit"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance. The opening deposit becomes both the
// starting balance and the immutable initial deposit.
func NewUser(firstName, lastName, login string, birthYear int, deposit decimal.Decimal) *User {
	now := time.Now().UTC()
	return &User{
		FirstName:      firstName,
		LastName:       lastName,
		BirthYear:      birthYear,
		Login:          login,
		Balance:        deposit,
		InitialDeposit: deposit,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
