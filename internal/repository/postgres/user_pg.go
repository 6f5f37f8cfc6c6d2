// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const userColumns = `id, first_name, last_name, birth_year, login, password_hash, balance, initial_deposit, created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository. Methods receive a
// DBExecutor directly, so the connection is not stored.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// Create inserts a new user. A duplicate login surfaces as util.ErrConflict
// via the unique constraint on app_user.login.
func (r *UserRepository) Create(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO app_user (first_name, last_name, birth_year, login, password_hash, balance, initial_deposit, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.BirthYear, user.Login, user.PasswordHash,
		user.Balance, user.InitialDeposit, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("login '%s': %w", user.Login, util.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
}

// GetByLogin retrieves a user by their login.
func (r *UserRepository) GetByLogin(ctx context.Context, q repository.DBExecutor, login string) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM app_user WHERE login = $1`, login)
}

// GetByIDForUpdate retrieves a user by ID holding a row lock for the
// remainder of the surrounding transaction.
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM app_user WHERE id = $1 FOR UPDATE`, id)
}

// GetByLoginForUpdate retrieves a user by login holding a row lock for the
// remainder of the surrounding transaction.
func (r *UserRepository) GetByLoginForUpdate(ctx context.Context, q repository.DBExecutor, login string) (*domain.User, error) {
	return r.getOne(ctx, q, `SELECT `+userColumns+` FROM app_user WHERE login = $1 FOR UPDATE`, login)
}

func (r *UserRepository) getOne(ctx context.Context, q repository.DBExecutor, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := q.GetContext(ctx, &user, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ExistsByLogin reports whether a user with the given login exists.
func (r *UserRepository) ExistsByLogin(ctx context.Context, q repository.DBExecutor, login string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM app_user WHERE login = $1)`
	if err := q.GetContext(ctx, &exists, query, login); err != nil {
		return false, fmt.Errorf("failed to check login '%s': %w", login, err)
	}
	return exists, nil
}

// UpdateBalance sets the balance of a specific user.
func (r *UserRepository) UpdateBalance(ctx context.Context, q repository.DBExecutor, userID int64, balance decimal.Decimal) error {
	query := `UPDATE app_user SET balance = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, balance, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, util.ErrNotFound)
	}
	return nil
}

// All returns every user record, ordered by ID.
func (r *UserRepository) All(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	var users []domain.User
	query := `SELECT ` + userColumns + ` FROM app_user ORDER BY id`
	if err := q.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Search returns a filtered page of users and the total match count. Filters
// on phone and email join the contact tables; empty filters are skipped.
// filter.SortField must come from the service-level whitelist, it is
// interpolated into the query.
func (r *UserRepository) Search(ctx context.Context, q repository.DBExecutor, filter repository.SearchFilter) ([]domain.User, int64, error) {
	where := `WHERE ($1::int IS NULL OR u.birth_year = $1)
              AND ($2 = '' OR p.number = $2)
              AND ($3 = '' OR u.first_name ILIKE $3 || '%')
              AND ($4 = '' OR e.name = $4)`
	from := `FROM app_user u
             LEFT JOIN email e ON e.user_id = u.id
             LEFT JOIN phone_number p ON p.user_id = u.id `

	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}
	cols := strings.Join(prefixColumns("u", userColumns), ", ")
	query := fmt.Sprintf(`SELECT DISTINCT %s %s %s ORDER BY u.%s %s LIMIT $5 OFFSET $6`,
		cols, from, where, filter.SortField, direction)

	var users []domain.User
	err := q.SelectContext(ctx, &users, query,
		filter.BirthYear, filter.Phone, filter.Name, filter.Email, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search users: %w", err)
	}

	var total int64
	countQuery := `SELECT COUNT(DISTINCT u.id) ` + from + where
	err = q.GetContext(ctx, &total, countQuery,
		filter.BirthYear, filter.Phone, filter.Name, filter.Email)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return users, total, nil
}

func prefixColumns(alias, columns string) []string {
	parts := strings.Split(columns, ", ")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = alias + "." + p
	}
	return out
}
