// internal/repository/postgres/contact_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ContactRepository implements repository.ContactRepository for PostgreSQL.
// The email and phone number tables share one implementation parameterized by
// table and value column; the value column is aliased to "value" so both scan
// into domain.Contact.
type ContactRepository struct {
	table  string
	column string
}

// NewEmailRepository creates the contact repository backed by the email table.
func NewEmailRepository(db *sqlx.DB) repository.ContactRepository {
	return &ContactRepository{table: "email", column: "name"}
}

// NewPhoneNumberRepository creates the contact repository backed by the
// phone_number table.
func NewPhoneNumberRepository(db *sqlx.DB) repository.ContactRepository {
	return &ContactRepository{table: "phone_number", column: "number"}
}

// GetByValue retrieves a contact by its globally unique value.
func (r *ContactRepository) GetByValue(ctx context.Context, q repository.DBExecutor, value string) (*domain.Contact, error) {
	var contact domain.Contact
	query := fmt.Sprintf(`SELECT id, %s AS value, user_id FROM %s WHERE %s = $1`, r.column, r.table, r.column)
	err := q.GetContext(ctx, &contact, query, value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s '%s': %w", r.table, value, err)
	}
	return &contact, nil
}

// ExistsByValue reports whether the value exists anywhere in the table.
func (r *ContactRepository) ExistsByValue(ctx context.Context, q repository.DBExecutor, value string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, r.table, r.column)
	if err := q.GetContext(ctx, &exists, query, value); err != nil {
		return false, fmt.Errorf("failed to check %s '%s': %w", r.table, value, err)
	}
	return exists, nil
}

// ListByUserID returns all contacts of this kind owned by the user.
func (r *ContactRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Contact, error) {
	var contacts []domain.Contact
	query := fmt.Sprintf(`SELECT id, %s AS value, user_id FROM %s WHERE user_id = $1 ORDER BY id`, r.column, r.table)
	if err := q.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list %s records for user %d: %w", r.table, userID, err)
	}
	return contacts, nil
}

// CountByUserID returns how many contacts of this kind the user owns.
func (r *ContactRepository) CountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (int64, error) {
	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, r.table)
	if err := q.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("failed to count %s records for user %d: %w", r.table, userID, err)
	}
	return count, nil
}

// Create inserts a new contact record. The per-column unique constraint is
// the authority for races: a concurrent duplicate insert surfaces as
// util.ErrConflict here.
func (r *ContactRepository) Create(ctx context.Context, q repository.DBExecutor, contact *domain.Contact) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, user_id) VALUES ($1, $2) RETURNING id`, r.table, r.column)
	err := q.QueryRowContext(ctx, query, contact.Value, contact.UserID).Scan(&contact.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s '%s': %w", r.table, contact.Value, util.ErrConflict)
		}
		return fmt.Errorf("failed to create %s '%s': %w", r.table, contact.Value, err)
	}
	return nil
}

// UpdateValue mutates an existing record's value in place, preserving its
// identity.
func (r *ContactRepository) UpdateValue(ctx context.Context, q repository.DBExecutor, id int64, newValue string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, r.table, r.column)
	result, err := q.ExecContext(ctx, query, newValue, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s '%s': %w", r.table, newValue, util.ErrConflict)
		}
		return fmt.Errorf("failed to update %s %d: %w", r.table, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s %d: %w", r.table, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", r.table, id, util.ErrNotFound)
	}
	return nil
}

// Delete removes the contact record with the given ID.
func (r *ContactRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	result, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", r.table, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s %d: %w", r.table, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", r.table, id, util.ErrNotFound)
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
