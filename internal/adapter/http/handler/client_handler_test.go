package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
)

type clientServiceStub struct {
	createFn func(ctx context.Context, firstName, lastName string) (*domain.Client, error)
	getFn    func(ctx context.Context, id string) (*domain.Client, error)
}

func (s *clientServiceStub) CreateClient(ctx context.Context, firstName, lastName string) (*domain.Client, error) {
	return s.createFn(ctx, firstName, lastName)
}

func (s *clientServiceStub) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.getFn(ctx, id)
}

type clientAccountServiceStub struct {
	openFn func(ctx context.Context, clientID string, initialBalance decimal.Decimal) (*domain.Account, error)
	listFn func(ctx context.Context, clientID string) ([]*domain.Account, error)
}

func (s *clientAccountServiceStub) Open(ctx context.Context, clientID string, initialBalance decimal.Decimal) (*domain.Account, error) {
	return s.openFn(ctx, clientID, initialBalance)
}

func (s *clientAccountServiceStub) ListClientAccounts(ctx context.Context, clientID string) ([]*domain.Account, error) {
	return s.listFn(ctx, clientID)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestClientHandler_Create_Success(t *testing.T) {
	var gotFirst, gotLast string
	h := NewClientHandler(&clientServiceStub{
		createFn: func(ctx context.Context, firstName, lastName string) (*domain.Client, error) {
			gotFirst, gotLast = firstName, lastName
			return &domain.Client{ID: "cli-1", FirstName: firstName, LastName: lastName}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"nom":"Dupond","prenom":"Jean"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if gotFirst != "Jean" || gotLast != "Dupond" {
		t.Fatalf("names passed as %q %q", gotFirst, gotLast)
	}

	var resp dto.ClientResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "cli-1" || resp.Nom != "Dupond" || resp.Prenom != "Jean" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientHandler_Create_InvalidBody(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		createFn: func(ctx context.Context, firstName, lastName string) (*domain.Client, error) {
			t.Fatal("CreateClient should not be called for invalid payload")
			return nil, nil
		},
	}, nil)

	for _, body := range []string{`{invalid json`, `{"nom":"Dupond"}`} {
		req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestClientHandler_Create_BlankNames(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		createFn: func(ctx context.Context, firstName, lastName string) (*domain.Client, error) {
			return nil, domain.ErrInvalidClientName
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"nom":" ","prenom":"Jean"}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClientHandler_Get(t *testing.T) {
	h := NewClientHandler(&clientServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Client, error) {
			if id == "cli-1" {
				return &domain.Client{ID: id, FirstName: "Jean", LastName: "Dupond"}, nil
			}
			return nil, domain.ErrClientNotFound
		},
	}, nil)

	tests := []struct {
		id   string
		code int
	}{
		{"cli-1", http.StatusOK},
		{"missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/clients/"+tt.id, nil), "id", tt.id)
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		if rec.Code != tt.code {
			t.Fatalf("id %s: expected %d, got %d", tt.id, tt.code, rec.Code)
		}
	}
}

func TestClientHandler_OpenAccount(t *testing.T) {
	var gotClient string
	var gotBalance decimal.Decimal
	h := NewClientHandler(nil, &clientAccountServiceStub{
		openFn: func(ctx context.Context, clientID string, initialBalance decimal.Decimal) (*domain.Account, error) {
			gotClient, gotBalance = clientID, initialBalance
			return &domain.Account{ID: "acc-1", ClientID: clientID, Balance: initialBalance, Active: true}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/clients/cli-1/comptes", strings.NewReader(`{"solde":10000}`)), "id", "cli-1")
	rec := httptest.NewRecorder()

	h.OpenAccount(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if gotClient != "cli-1" || !gotBalance.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("Open called with %s %s", gotClient, gotBalance)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "acc-1" || !resp.Actif {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientHandler_OpenAccount_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown client", domain.ErrClientNotFound, http.StatusNotFound},
		{"negative balance", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"storage failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewClientHandler(nil, &clientAccountServiceStub{
				openFn: func(ctx context.Context, clientID string, initialBalance decimal.Decimal) (*domain.Account, error) {
					return nil, tt.err
				},
			})

			req := withURLParam(httptest.NewRequest(http.MethodPost, "/clients/x/comptes", strings.NewReader(`{"solde":-1}`)), "id", "x")
			rec := httptest.NewRecorder()

			h.OpenAccount(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
		})
	}
}

func TestClientHandler_ListAccounts(t *testing.T) {
	h := NewClientHandler(nil, &clientAccountServiceStub{
		listFn: func(ctx context.Context, clientID string) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: "acc-1", ClientID: clientID, Active: true},
				{ID: "acc-2", ClientID: clientID},
			}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/clients/cli-1/comptes", nil), "id", "cli-1")
	rec := httptest.NewRecorder()

	h.ListAccounts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp) != 2 || resp[1].Actif {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
