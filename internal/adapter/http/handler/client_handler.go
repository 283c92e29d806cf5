package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
)

// ClientService defines the behavior needed by ClientHandler.
type ClientService interface {
	CreateClient(ctx context.Context, firstName, lastName string) (*domain.Client, error)
	GetClient(ctx context.Context, id string) (*domain.Client, error)
}

// ClientAccountService is the part of the account service used by client routes.
type ClientAccountService interface {
	Open(ctx context.Context, clientID string, initialBalance decimal.Decimal) (*domain.Account, error)
	ListClientAccounts(ctx context.Context, clientID string) ([]*domain.Account, error)
}

// ClientHandler handles /clients requests.
type ClientHandler struct {
	clientUC  ClientService
	accountUC ClientAccountService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientUC ClientService, accountUC ClientAccountService) *ClientHandler {
	return &ClientHandler{clientUC: clientUC, accountUC: accountUC}
}

// Create returns the client with the given names, creating it if needed.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ClientRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	client, err := h.clientUC.CreateClient(r.Context(), req.Prenom, req.Nom)
	if err != nil {
		writeDomainError(w, r, "failed to create client", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// Get retrieves a client by ID.
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientUC.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get client", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClientFromDomain(client))
}

// OpenAccount opens an account for the client in the URL.
func (h *ClientHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Open(r.Context(), chi.URLParam(r, "id"), req.Solde)
	if err != nil {
		writeDomainError(w, r, "failed to open account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// ListAccounts lists the accounts owned by the client in the URL.
func (h *ClientHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListClientAccounts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}
