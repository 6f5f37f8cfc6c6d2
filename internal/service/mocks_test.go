// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, q repository.DBExecutor, login string) (*domain.User, error) {
	args := m.Called(ctx, q, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByLoginForUpdate(ctx context.Context, q repository.DBExecutor, login string) (*domain.User, error) {
	args := m.Called(ctx, q, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByLogin(ctx context.Context, q repository.DBExecutor, login string) (bool, error) {
	args := m.Called(ctx, q, login)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateBalance(ctx context.Context, q repository.DBExecutor, userID int64, balance decimal.Decimal) error {
	args := m.Called(ctx, q, userID, balance)
	return args.Error(0)
}

func (m *MockUserRepository) All(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, q repository.DBExecutor, filter repository.SearchFilter) ([]domain.User, int64, error) {
	args := m.Called(ctx, q, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

// MockContactRepository is a mock implementation of repository.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) GetByValue(ctx context.Context, q repository.DBExecutor, value string) (*domain.Contact, error) {
	args := m.Called(ctx, q, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactRepository) ExistsByValue(ctx context.Context, q repository.DBExecutor, value string) (bool, error) {
	args := m.Called(ctx, q, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockContactRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Contact, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactRepository) CountByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (int64, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, q repository.DBExecutor, contact *domain.Contact) error {
	args := m.Called(ctx, q, contact)
	return args.Error(0)
}

func (m *MockContactRepository) UpdateValue(ctx context.Context, q repository.DBExecutor, id int64, newValue string) error {
	args := m.Called(ctx, q, id, newValue)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController that also
// satisfies repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// txFuncs returns begin/commit/rollback functions that route through the
// provided mock controller.
func txFuncs(tx *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return tx, nil
		},
		func(controller db.TxController) error {
			return tx.Commit()
		},
		func(controller db.TxController) {
			_ = tx.Rollback()
		}
}
