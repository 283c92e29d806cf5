package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ErrValidation is returned by Validate when a request fails its struct tags.
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request against its validate tags.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "max":
		return fe.Field() + " is too long"
	case "min":
		return fe.Field() + " is too short"
	default:
		return fe.Field() + " is invalid"
	}
}

// ClientRequest represents a request to create a client.
type ClientRequest struct {
	Nom    string `json:"nom"    validate:"required,max=255"`
	Prenom string `json:"prenom" validate:"required,max=255"`
}

// OpenAccountRequest represents a request to open an account for a client.
// A missing solde opens the account with a zero balance.
type OpenAccountRequest struct {
	Solde decimal.Decimal `json:"solde"`
}

// OperationRequest represents a credit or debit on an account.
type OperationRequest struct {
	Valeur        decimal.Decimal      `json:"valeur"`
	OperationType domain.OperationKind `json:"operationType" validate:"required"`
}

// VirementRequest represents a transfer from the account in the URL.
type VirementRequest struct {
	Valeur               decimal.Decimal `json:"valeur"`
	IDCompteDestinataire string          `json:"idCompteDestinataire" validate:"required"`
}

// RegisterRequest represents a request to register an API user.
type RegisterRequest struct {
	FirstName string `json:"firstname" validate:"required,max=255"`
	LastName  string `json:"lastname"  validate:"required,max=255"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}

// AuthenticationRequest represents a login request.
type AuthenticationRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}
