package topup

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/odyssey-erp/topup/internal/ledger"
)

// UserCredit records one applied credit for reporting.
type UserCredit struct {
	FirstName      string
	LastName       string
	Email          string
	PreviousTokens int64
	NewTokens      int64
}

// CompanyResult is the outcome of one company's top-up.
type CompanyResult struct {
	CompanyID   int64
	CompanyName string
	TopUp       int64
	Emailed     []UserCredit
	NotEmailed  []UserCredit
	Total       int64
}

// Summary is the outcome of a whole pass. Companies without active users do
// not appear.
type Summary struct {
	RunID     uuid.UUID
	Companies []CompanyResult
}

// Engine applies one top-up pass over every company in the store.
type Engine struct {
	store  ledger.Store
	logger *slog.Logger
}

// NewEngine constructs an engine over the given store.
func NewEngine(store ledger.Store, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Run executes the pass inside a single transaction: companies in id order,
// each company's emailable users first, then the rest, every visited user
// credited with the company's top_up. Any store error aborts the
// transaction, so a failed pass leaves every balance as it was — a retried
// run can never double-credit.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.New()}

	err := e.store.WithTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		companies, err := tx.ListCompanies(ctx)
		if err != nil {
			return err
		}

		for _, company := range companies {
			active, err := tx.ActiveUsersOf(ctx, company.ID)
			if err != nil {
				return err
			}
			if len(active) == 0 {
				continue
			}

			emailable, notEmailable := Partition(company, active)
			result := CompanyResult{
				CompanyID:   company.ID,
				CompanyName: company.Name,
				TopUp:       company.TopUp,
			}

			result.Emailed, err = creditAll(ctx, tx, company, emailable, &result.Total)
			if err != nil {
				return err
			}
			result.NotEmailed, err = creditAll(ctx, tx, company, notEmailable, &result.Total)
			if err != nil {
				return err
			}

			summary.Companies = append(summary.Companies, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("top-up pass complete",
		slog.String("run_id", summary.RunID.String()),
		slog.Int("companies", len(summary.Companies)))
	return summary, nil
}

func creditAll(ctx context.Context, tx ledger.Store, company ledger.Company, users []ledger.User, total *int64) ([]UserCredit, error) {
	credits := make([]UserCredit, 0, len(users))
	for _, u := range users {
		newTokens := u.Tokens + company.TopUp
		if err := tx.UpdateUserTokens(ctx, u.ID, newTokens); err != nil {
			return nil, err
		}
		credits = append(credits, UserCredit{
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Email:          u.Email,
			PreviousTokens: u.Tokens,
			NewTokens:      newTokens,
		})
		*total += company.TopUp
	}
	return credits, nil
}
