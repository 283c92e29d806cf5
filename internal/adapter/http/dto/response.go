package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Amount is a decimal that encodes as a bare JSON number, as API clients
// expect for balances and operation values.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Nom       string    `json:"nom"`
	Prenom    string    `json:"prenom"`
	CreatedAt time.Time `json:"createdAt"`
}

// ClientFromDomain converts domain client to response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Nom:       c.LastName,
		Prenom:    c.FirstName,
		CreatedAt: c.CreatedAt,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                string     `json:"id"`
	ClientID          string     `json:"idClient"`
	Solde             Amount     `json:"solde"`
	Actif             bool       `json:"actif"`
	DateInterrogation *time.Time `json:"dateInterrogation"`
	Version           int64      `json:"version"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                a.ID,
		ClientID:          a.ClientID,
		Solde:             Amount{a.Balance},
		Actif:             a.Active,
		DateInterrogation: a.LastInquiryAt,
		Version:           a.Version,
		CreatedAt:         a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// PositionResponse is the balance of an account at the time it was read.
type PositionResponse struct {
	Solde             Amount    `json:"solde"`
	DateInterrogation time.Time `json:"dateInterrogation"`
}

// PositionFromDomain converts a domain position to response.
func PositionFromDomain(p *domain.Position) *PositionResponse {
	return &PositionResponse{
		Solde:             Amount{p.Balance},
		DateInterrogation: p.At,
	}
}

// OperationResponse represents a ledger operation in API responses.
type OperationResponse struct {
	ID            string               `json:"id"`
	OperationType domain.OperationKind `json:"operationType"`
	Valeur        Amount               `json:"valeur"`
	DateOperation time.Time            `json:"dateOperation"`
}

// OperationFromDomain converts domain operation to response.
func OperationFromDomain(o *domain.Operation) *OperationResponse {
	return &OperationResponse{
		ID:            o.ID,
		OperationType: o.Kind,
		Valeur:        Amount{o.Value},
		DateOperation: o.CreatedAt,
	}
}

// OperationsFromDomain converts domain operations to responses.
func OperationsFromDomain(ops []*domain.Operation) []*OperationResponse {
	result := make([]*OperationResponse, len(ops))
	for i, o := range ops {
		result[i] = OperationFromDomain(o)
	}
	return result
}

// AuthenticationResponse carries a token pair.
type AuthenticationResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokensFromDomain converts a token pair to response.
func TokensFromDomain(p *domain.TokenPair) *AuthenticationResponse {
	return &AuthenticationResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
