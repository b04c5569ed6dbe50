package ledger

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the referenced row does not exist.
	ErrNotFound = errors.New("ledger: record not found")
	// ErrConstraint matches any ConstraintError via errors.Is.
	ErrConstraint = errors.New("ledger: constraint violation")
)

// ConstraintError reports a rejected insert, carrying enough detail to name
// the offending constraint in diagnostics.
type ConstraintError struct {
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ledger: constraint %s violated: %s", e.Constraint, e.Detail)
	}
	return fmt.Sprintf("ledger: constraint %s violated", e.Constraint)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// Store is the record store required by ingestion and the top-up engine.
//
// WithTx runs fn against a store view bound to a single transaction; the
// transaction commits only if fn returns nil. Both the ingestion batch and
// the whole top-up pass run inside exactly one WithTx each, which is what
// makes their all-or-nothing semantics hold.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error

	// CreateCompany inserts a company using the caller-supplied id.
	CreateCompany(ctx context.Context, c Company) (Company, error)
	// CreateUser inserts a user, assigning the id. Any id on u is ignored.
	CreateUser(ctx context.Context, u User) (User, error)

	// ListCompanies returns all companies ordered by id ascending.
	ListCompanies(ctx context.Context) ([]Company, error)
	// ActiveUsersOf returns a company's active users ordered by last name
	// ascending, insertion order breaking ties.
	ActiveUsersOf(ctx context.Context, companyID int64) ([]User, error)

	// UpdateUserTokens persists a new token balance.
	UpdateUserTokens(ctx context.Context, userID, tokens int64) error
}
