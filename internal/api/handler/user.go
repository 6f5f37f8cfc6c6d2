// internal/api/handler/user.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"banking-service/internal/api/middleware"
	"banking-service/internal/api/types"
	"banking-service/internal/service"
	"banking-service/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// UserHandler handles authenticated user operations: transfers, contact
// mutations, lookups, and search. Query parameters carry the operation
// arguments; the caller identity comes from the auth middleware.
type UserHandler struct {
	users  service.UserService
	emails service.ContactManager
	phones service.ContactManager
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, emails, phones service.ContactManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		emails: emails,
		phones: phones,
		logger: logger,
	}
}

func (h *UserHandler) callerLogin(w http.ResponseWriter, r *http.Request) (string, bool) {
	login, ok := middleware.CallerLogin(r.Context())
	if !ok {
		respondWithError(w, h.logger, util.ErrInvalidCredentials)
		return "", false
	}
	return login, true
}

// Transfer handles the send money request.
// PATCH /users/account?money=&receiverId=
func (h *UserHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	login, ok := h.callerLogin(w, r)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(r.URL.Query().Get("money"))
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	receiverID, err := strconv.ParseInt(r.URL.Query().Get("receiverId"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	summary, err := h.users.Transfer(r.Context(), login, amount, receiverID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, summary)
}

// GetByID handles the user lookup request.
// GET /users/{id}
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	summary, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, summary)
}

// Search handles the filtered user search request.
// GET /users?name=&birthDate=&phone=&email=&page=&size=&sortField=&sortDirection=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	input := service.SearchInput{
		Phone:         query.Get("phone"),
		Name:          query.Get("name"),
		Email:         query.Get("email"),
		SortField:     query.Get("sortField"),
		SortDirection: query.Get("sortDirection"),
	}
	if v := query.Get("birthDate"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, h.logger, util.ErrInvalidInput)
			return
		}
		input.BirthYear = &year
	}
	if v := query.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			input.Page = page
		}
	}
	if v := query.Get("size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			input.Size = size
		}
	}

	summaries, total, err := h.users.Search(r.Context(), input)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, types.PaginatedResponse[service.UserSummary]{
		Data:       summaries,
		Page:       input.Page,
		Size:       input.Size,
		TotalCount: total,
	})
}

// AddEmail handles POST /users/email?email=
func (h *UserHandler) AddEmail(w http.ResponseWriter, r *http.Request) {
	h.addContact(w, r, h.emails, "email")
}

// EditEmail handles PATCH /users/email?oldEmail=&newEmail=
func (h *UserHandler) EditEmail(w http.ResponseWriter, r *http.Request) {
	h.editContact(w, r, h.emails, "oldEmail", "newEmail")
}

// DeleteEmail handles DELETE /users/email?email=
func (h *UserHandler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	h.deleteContact(w, r, h.emails, "email")
}

// AddPhoneNumber handles POST /users/phone-number?phoneNumber=
func (h *UserHandler) AddPhoneNumber(w http.ResponseWriter, r *http.Request) {
	h.addContact(w, r, h.phones, "phoneNumber")
}

// EditPhoneNumber handles PATCH /users/phone-number?oldPhoneNumber=&newPhoneNumber=
func (h *UserHandler) EditPhoneNumber(w http.ResponseWriter, r *http.Request) {
	h.editContact(w, r, h.phones, "oldPhoneNumber", "newPhoneNumber")
}

// DeletePhoneNumber handles DELETE /users/phone-number?phoneNumber=
func (h *UserHandler) DeletePhoneNumber(w http.ResponseWriter, r *http.Request) {
	h.deleteContact(w, r, h.phones, "phoneNumber")
}

func (h *UserHandler) addContact(w http.ResponseWriter, r *http.Request, manager service.ContactManager, param string) {
	login, ok := h.callerLogin(w, r)
	if !ok {
		return
	}
	value := r.URL.Query().Get(param)
	if value == "" {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	summary, err := manager.Add(r.Context(), login, value)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, summary)
}

func (h *UserHandler) editContact(w http.ResponseWriter, r *http.Request, manager service.ContactManager, oldParam, newParam string) {
	login, ok := h.callerLogin(w, r)
	if !ok {
		return
	}
	oldValue := r.URL.Query().Get(oldParam)
	newValue := r.URL.Query().Get(newParam)
	if oldValue == "" || newValue == "" {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	summary, err := manager.Edit(r.Context(), login, oldValue, newValue)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, summary)
}

func (h *UserHandler) deleteContact(w http.ResponseWriter, r *http.Request, manager service.ContactManager, param string) {
	login, ok := h.callerLogin(w, r)
	if !ok {
		return
	}
	value := r.URL.Query().Get(param)
	if value == "" {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	message, err := manager.Delete(r.Context(), login, value)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": message})
}
