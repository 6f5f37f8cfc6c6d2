// internal/service/user_service.go
package service

import (
	"context"
	"fmt"

	"banking-service/internal/domain"
	"banking-service/internal/repository"
	"banking-service/internal/util"
	"banking-service/pkg/db"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Sortable columns for user search, keyed by the API-facing field name.
var searchSortColumns = map[string]string{
	"id":        "id",
	"login":     "login",
	"firstName": "first_name",
	"lastName":  "last_name",
	"birthYear": "birth_year",
}

// SignUpInput carries the fields required to register a new user. Account is
// the opening deposit; it becomes both the balance and the accrual ceiling
// basis.
type SignUpInput struct {
	FirstName   string          `validate:"required"`
	LastName    string          `validate:"required"`
	Login       string          `validate:"required,min=3"`
	Password    string          `validate:"required,min=6"`
	BirthYear   int             `validate:"required,gte=1900"`
	Email       string          `validate:"required,email"`
	PhoneNumber string          `validate:"required,numeric,min=5,max=15"`
	Account     decimal.Decimal `validate:"-"`
}

// SearchInput narrows and pages a user search at the service boundary.
type SearchInput struct {
	BirthYear     *int
	Phone         string
	Name          string
	Email         string
	Page          int
	Size          int
	SortField     string
	SortDirection string
}

// UserService defines the user-account business logic: registration, login,
// balance transfers, and lookups.
type UserService interface {
	Register(ctx context.Context, input SignUpInput) (*UserSummary, error)
	Login(ctx context.Context, login, password string) (*UserSummary, error)
	Transfer(ctx context.Context, senderLogin string, amount decimal.Decimal, receiverID int64) (*UserSummary, error)
	GetByID(ctx context.Context, id int64) (*UserSummary, error)
	GetByLogin(ctx context.Context, login string) (*UserSummary, error)
	Search(ctx context.Context, input SearchInput) ([]UserSummary, int64, error)
}

// userService implements the UserService interface.
type userService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	emailRepo  repository.ContactRepository
	phoneRepo  repository.ContactRepository
	validate   *validator.Validate
	bcryptCost int
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	emailRepo repository.ContactRepository,
	phoneRepo repository.ContactRepository,
	bcryptCost int,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		emailRepo:  emailRepo,
		phoneRepo:  phoneRepo,
		validate:   validator.New(),
		bcryptCost: bcryptCost,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// Register creates a user with exactly one email and one phone number. The
// three uniqueness checks run in order login, email, phone and short-circuit
// on the first conflict. Everything happens in a single transaction.
func (s *userService) Register(ctx context.Context, input SignUpInput) (*UserSummary, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("register: %v: %w", err, util.ErrInvalidInput)
	}
	if !input.Account.IsPositive() {
		return nil, fmt.Errorf("register: opening deposit must be positive: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("register: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("register: transaction controller does not implement DBExecutor")
	}

	loginTaken, err := s.userRepo.ExistsByLogin(ctx, txExecutor, input.Login)
	if err != nil {
		return nil, fmt.Errorf("register: failed to check login: %w", err)
	}
	if loginTaken {
		return nil, fmt.Errorf("register: login '%s': %w", input.Login, util.ErrConflict)
	}

	emailTaken, err := s.emailRepo.ExistsByValue(ctx, txExecutor, input.Email)
	if err != nil {
		return nil, fmt.Errorf("register: failed to check email: %w", err)
	}
	if emailTaken {
		return nil, fmt.Errorf("register: email '%s': %w", input.Email, util.ErrConflict)
	}

	phoneTaken, err := s.phoneRepo.ExistsByValue(ctx, txExecutor, input.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("register: failed to check phone number: %w", err)
	}
	if phoneTaken {
		return nil, fmt.Errorf("register: phone number '%s': %w", input.PhoneNumber, util.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: failed to hash password: %w", err)
	}

	user := domain.NewUser(input.FirstName, input.LastName, input.Login, input.BirthYear, input.Account)
	user.PasswordHash = string(hash)
	if err := s.userRepo.Create(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}

	if err := s.emailRepo.Create(ctx, txExecutor, domain.NewContact(user.ID, input.Email)); err != nil {
		return nil, fmt.Errorf("register: failed to create email: %w", err)
	}
	if err := s.phoneRepo.Create(ctx, txExecutor, domain.NewContact(user.ID, input.PhoneNumber)); err != nil {
		return nil, fmt.Errorf("register: failed to create phone number: %w", err)
	}

	summary, err := loadUserSummary(ctx, txExecutor, s.emailRepo, s.phoneRepo, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("register: failed to commit transaction: %w", err)
	}

	util.GetLogger().Info("User registered", "login", user.Login)
	return summary, nil
}

// Login resolves the user by login and checks the password against the
// stored bcrypt hash.
func (s *userService) Login(ctx context.Context, login, password string) (*UserSummary, error) {
	user, err := s.userRepo.GetByLogin(ctx, s.dbExecutor, login)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("login '%s': %w", login, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("login: failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("login '%s': %w", login, util.ErrInvalidCredentials)
	}

	summary, err := loadUserSummary(ctx, s.dbExecutor, s.emailRepo, s.phoneRepo, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	util.GetLogger().Info("User logged in", "login", login)
	return summary, nil
}

// Transfer moves money from the sender (resolved by login) to the receiver
// (resolved by ID). Both rows are locked and updated inside one transaction,
// and the balance check uses exact decimal arithmetic, so a concurrent
// transfer touching either party cannot produce an overdraft or a torn state.
func (s *userService) Transfer(ctx context.Context, senderLogin string, amount decimal.Decimal, receiverID int64) (*UserSummary, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer: amount must be positive: %w", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	sender, err := s.userRepo.GetByLoginForUpdate(ctx, txExecutor, senderLogin)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("transfer: sender '%s': %w", senderLogin, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("transfer: failed to get sender: %w", err)
	}

	receiver, err := s.userRepo.GetByIDForUpdate(ctx, txExecutor, receiverID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("transfer: receiver %d: %w", receiverID, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("transfer: failed to get receiver: %w", err)
	}

	if sender.ID == receiver.ID {
		return nil, fmt.Errorf("transfer: cannot transfer to the same account: %w", util.ErrInvalidInput)
	}

	if sender.Balance.Sub(amount).IsNegative() {
		return nil, fmt.Errorf("transfer: sender '%s': %w", senderLogin, util.ErrInsufficientFunds)
	}

	if err := s.userRepo.UpdateBalance(ctx, txExecutor, sender.ID, sender.Balance.Sub(amount)); err != nil {
		return nil, fmt.Errorf("transfer: failed to debit sender: %w", err)
	}
	if err := s.userRepo.UpdateBalance(ctx, txExecutor, receiver.ID, receiver.Balance.Add(amount)); err != nil {
		return nil, fmt.Errorf("transfer: failed to credit receiver: %w", err)
	}

	updatedSender, err := s.userRepo.GetByID(ctx, txExecutor, sender.ID)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to re-fetch sender %d: %w", sender.ID, err)
	}

	summary, err := loadUserSummary(ctx, txExecutor, s.emailRepo, s.phoneRepo, updatedSender)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	util.GetLogger().Info("Transfer completed",
		"sender", senderLogin, "receiver_id", receiverID, "amount", amount.String())
	return summary, nil
}

// GetByID returns the summary view for a user resolved by ID.
func (s *userService) GetByID(ctx context.Context, id int64) (*UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, s.dbExecutor, id)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return loadUserSummary(ctx, s.dbExecutor, s.emailRepo, s.phoneRepo, user)
}

// GetByLogin returns the summary view for a user resolved by login.
func (s *userService) GetByLogin(ctx context.Context, login string) (*UserSummary, error) {
	user, err := s.userRepo.GetByLogin(ctx, s.dbExecutor, login)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("user '%s': %w", login, util.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", login, err)
	}
	return loadUserSummary(ctx, s.dbExecutor, s.emailRepo, s.phoneRepo, user)
}

// Search returns a filtered, sorted page of user summaries and the total
// match count.
func (s *userService) Search(ctx context.Context, input SearchInput) ([]UserSummary, int64, error) {
	sortColumn, ok := searchSortColumns[input.SortField]
	if !ok {
		sortColumn = "id"
	}
	size := input.Size
	if size <= 0 || size > 100 {
		size = 10
	}
	page := input.Page
	if page < 0 {
		page = 0
	}

	filter := repository.SearchFilter{
		BirthYear: input.BirthYear,
		Phone:     input.Phone,
		Name:      input.Name,
		Email:     input.Email,
		Limit:     size,
		Offset:    page * size,
		SortField: sortColumn,
		SortAsc:   input.SortDirection != "DESC",
	}

	users, total, err := s.userRepo.Search(ctx, s.dbExecutor, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for i := range users {
		summary, err := loadUserSummary(ctx, s.dbExecutor, s.emailRepo, s.phoneRepo, &users[i])
		if err != nil {
			return nil, 0, fmt.Errorf("search: %w", err)
		}
		summaries = append(summaries, *summary)
	}
	return summaries, total, nil
}
