package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Inquire(ctx context.Context, id string) (*domain.Position, error)
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
	Debit(ctx context.Context, id string, amount decimal.Decimal) error
	Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) error
	Close(ctx context.Context, id string) error
	ListOperations(ctx context.Context, id string) ([]*domain.Operation, error)
}

// AccountHandler handles /comptes requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Get returns the position of an account. Every call is recorded as an
// inquiry.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writePosition(w, r, chi.URLParam(r, "id"))
}

// ListOperations returns the ledger of an account.
func (h *AccountHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	ops, err := h.accountUC.ListOperations(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to list operations", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationsFromDomain(ops))
}

// Operate applies a CREDIT or DEBIT and returns the new position.
func (h *AccountHandler) Operate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.OperationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var err error
	switch req.OperationType {
	case domain.OperationCredit:
		err = h.accountUC.Credit(r.Context(), id, req.Valeur)
	case domain.OperationDebit:
		err = h.accountUC.Debit(r.Context(), id, req.Valeur)
	default:
		err = fmt.Errorf("%w: %s", domain.ErrOperationNotAllowed, req.OperationType)
	}

	if err != nil {
		writeDomainError(w, r, "operation rejected", err)
		return
	}

	h.writePosition(w, r, id)
}

// Transfer moves money to another account and returns the source position.
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.VirementRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	err := h.accountUC.Transfer(r.Context(), id, req.IDCompteDestinataire, req.Valeur)
	if err != nil {
		writeDomainError(w, r, "transfer rejected", err)
		return
	}

	h.writePosition(w, r, id)
}

// Close closes an account.
func (h *AccountHandler) Close(w http.ResponseWriter, r *http.Request) {
	err := h.accountUC.Close(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to close account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) writePosition(w http.ResponseWriter, r *http.Request, id string) {
	position, err := h.accountUC.Inquire(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PositionFromDomain(position))
}
