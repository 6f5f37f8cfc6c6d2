// internal/service/contact_manager.go
package service

import (
	"context"
	"fmt"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/internal/util"
	"banking-service/pkg/db"

	"github.com/go-playground/validator/v10"
)

// Syntax rules per contact kind, applied with validator.Var.
var contactSyntaxRules = map[domain.ContactKind]string{
	domain.ContactKindEmail: "required,email",
	domain.ContactKindPhone: "required,numeric,min=5,max=15",
}

// ContactManager mutates a user's contact set of one kind while holding two
// invariants: values are globally unique within the kind, and a user never
// drops below one contact of each kind. One policy, instantiated once for
// emails and once for phone numbers.
type ContactManager interface {
	Add(ctx context.Context, login, value string) (*UserSummary, error)
	Edit(ctx context.Context, login, oldValue, newValue string) (*UserSummary, error)
	Delete(ctx context.Context, login, value string) (string, error)
}

// contactManager implements the ContactManager interface for one kind.
type contactManager struct {
	kind       domain.ContactKind
	dbBeginner db.DBTxBeginner
	userRepo   repository.UserRepository
	repo       repository.ContactRepository // store for this kind
	emailRepo  repository.ContactRepository // both kinds needed for summaries
	phoneRepo  repository.ContactRepository
	validate   *validator.Validate
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewContactManager creates the manager for one contact kind. repo must be
// the ContactRepository matching kind; emailRepo and phoneRepo are used to
// assemble summary views.
func NewContactManager(
	kind domain.ContactKind,
	dbBeginner db.DBTxBeginner,
	userRepo repository.UserRepository,
	repo repository.ContactRepository,
	emailRepo repository.ContactRepository,
	phoneRepo repository.ContactRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) ContactManager {
	return &contactManager{
		kind:       kind,
		dbBeginner: dbBeginner,
		userRepo:   userRepo,
		repo:       repo,
		emailRepo:  emailRepo,
		phoneRepo:  phoneRepo,
		validate:   validator.New(),
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (m *contactManager) validateValue(value string) error {
	if err := m.validate.Var(value, contactSyntaxRules[m.kind]); err != nil {
		return fmt.Errorf("malformed %s '%s': %w", m.kind, value, util.ErrInvalidInput)
	}
	return nil
}

// Add attaches a new contact to the user. The value must not exist anywhere
// in the store; the per-column unique constraint resolves races the pre-check
// cannot see.
func (m *contactManager) Add(ctx context.Context, login, value string) (*UserSummary, error) {
	if err := m.validateValue(value); err != nil {
		return nil, fmt.Errorf("add %s: %w", m.kind, err)
	}

	txController, err := m.beginTx(ctx, m.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("add %s: failed to begin transaction: %w", m.kind, err)
	}
	defer m.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("add %s: transaction controller does not implement DBExecutor", m.kind)
	}

	user, err := m.getUser(ctx, txExecutor, login)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", m.kind, err)
	}

	taken, err := m.repo.ExistsByValue(ctx, txExecutor, value)
	if err != nil {
		return nil, fmt.Errorf("add %s: failed to check value: %w", m.kind, err)
	}
	if taken {
		return nil, fmt.Errorf("add %s '%s': %w", m.kind, value, util.ErrConflict)
	}

	if err := m.repo.Create(ctx, txExecutor, domain.NewContact(user.ID, value)); err != nil {
		return nil, fmt.Errorf("add %s: %w", m.kind, err)
	}

	summary, err := loadUserSummary(ctx, txExecutor, m.emailRepo, m.phoneRepo, user)
	if err != nil {
		return nil, fmt.Errorf("add %s: %w", m.kind, err)
	}

	if err := m.commitTx(txController); err != nil {
		return nil, fmt.Errorf("add %s: failed to commit transaction: %w", m.kind, err)
	}

	util.GetLogger().Info("Contact added", "kind", string(m.kind), "login", login)
	return summary, nil
}

// Edit mutates an existing record's value in place, preserving its identity.
// The conflict check runs against the new value.
func (m *contactManager) Edit(ctx context.Context, login, oldValue, newValue string) (*UserSummary, error) {
	if err := m.validateValue(newValue); err != nil {
		return nil, fmt.Errorf("edit %s: %w", m.kind, err)
	}

	txController, err := m.beginTx(ctx, m.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("edit %s: failed to begin transaction: %w", m.kind, err)
	}
	defer m.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("edit %s: transaction controller does not implement DBExecutor", m.kind)
	}

	user, err := m.getUser(ctx, txExecutor, login)
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", m.kind, err)
	}

	existing, err := m.repo.GetByValue(ctx, txExecutor, oldValue)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("edit %s '%s': %w", m.kind, oldValue, util.ErrNotFound)
		}
		return nil, fmt.Errorf("edit %s: failed to get value: %w", m.kind, err)
	}
	// A record owned by someone else is invisible to this caller.
	if existing.UserID != user.ID {
		return nil, fmt.Errorf("edit %s '%s': %w", m.kind, oldValue, util.ErrNotFound)
	}

	taken, err := m.repo.ExistsByValue(ctx, txExecutor, newValue)
	if err != nil {
		return nil, fmt.Errorf("edit %s: failed to check new value: %w", m.kind, err)
	}
	if taken {
		return nil, fmt.Errorf("edit %s '%s': %w", m.kind, newValue, util.ErrConflict)
	}

	if err := m.repo.UpdateValue(ctx, txExecutor, existing.ID, newValue); err != nil {
		return nil, fmt.Errorf("edit %s: %w", m.kind, err)
	}

	summary, err := loadUserSummary(ctx, txExecutor, m.emailRepo, m.phoneRepo, user)
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", m.kind, err)
	}

	if err := m.commitTx(txController); err != nil {
		return nil, fmt.Errorf("edit %s: failed to commit transaction: %w", m.kind, err)
	}

	util.GetLogger().Info("Contact updated", "kind", string(m.kind), "login", login)
	return summary, nil
}

// Delete detaches and removes a contact. Removing the last contact of a kind
// is refused.
func (m *contactManager) Delete(ctx context.Context, login, value string) (string, error) {
	txController, err := m.beginTx(ctx, m.dbBeginner)
	if err != nil {
		return "", fmt.Errorf("delete %s: failed to begin transaction: %w", m.kind, err)
	}
	defer m.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return "", fmt.Errorf("delete %s: transaction controller does not implement DBExecutor", m.kind)
	}

	user, err := m.getUser(ctx, txExecutor, login)
	if err != nil {
		return "", fmt.Errorf("delete %s: %w", m.kind, err)
	}

	count, err := m.repo.CountByUserID(ctx, txExecutor, user.ID)
	if err != nil {
		return "", fmt.Errorf("delete %s: failed to count contacts: %w", m.kind, err)
	}
	if count <= 1 {
		return "", fmt.Errorf("delete %s: %w", m.kind, util.ErrLastContact)
	}

	existing, err := m.repo.GetByValue(ctx, txExecutor, value)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return "", fmt.Errorf("delete %s '%s': %w", m.kind, value, util.ErrNotFound)
		}
		return "", fmt.Errorf("delete %s: failed to get value: %w", m.kind, err)
	}
	if existing.UserID != user.ID {
		return "", fmt.Errorf("delete %s '%s': %w", m.kind, value, util.ErrNotFound)
	}

	if err := m.repo.Delete(ctx, txExecutor, existing.ID); err != nil {
		return "", fmt.Errorf("delete %s: %w", m.kind, err)
	}

	if err := m.commitTx(txController); err != nil {
		return "", fmt.Errorf("delete %s: failed to commit transaction: %w", m.kind, err)
	}

	util.GetLogger().Info("Contact deleted", "kind", string(m.kind), "login", login)
	return fmt.Sprintf("%s '%s' deleted successfully", m.kind, value), nil
}

func (m *contactManager) getUser(ctx context.Context, q repository.DBExecutor, login string) (*domain.User, error) {
	user, err := m.userRepo.GetByLogin(ctx, q, login)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("user '%s': %w", login, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", login, err)
	}
	return user, nil
}
