package ingest

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/topup/internal/ledger"
)

// Loader seeds the record store from input batches.
type Loader struct {
	store    ledger.Store
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLoader constructs a loader over the given store.
func NewLoader(store ledger.Store, logger *slog.Logger) *Loader {
	return &Loader{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Load inserts every company, then every user, inside one transaction.
// The first malformed record or constraint violation aborts the whole batch:
// the returned *RecordError names the record, and zero rows persist.
func (l *Loader) Load(ctx context.Context, companies []CompanyRecord, users []UserRecord) error {
	err := l.store.WithTx(ctx, func(ctx context.Context, tx ledger.Store) error {
		for i, rec := range companies {
			if err := l.validate.Struct(rec); err != nil {
				return &RecordError{Entity: "Company", Index: i, Record: rec, Err: err}
			}
			if _, err := tx.CreateCompany(ctx, ledger.Company{
				ID:          rec.ID,
				Name:        rec.Name,
				TopUp:       rec.TopUp,
				EmailStatus: rec.EmailStatus,
			}); err != nil {
				return &RecordError{Entity: "Company", Index: i, Record: rec, Err: err}
			}
		}

		for i, rec := range users {
			if err := l.validate.Struct(rec); err != nil {
				return &RecordError{Entity: "User", Index: i, Record: rec, Err: err}
			}
			// rec.ID is deliberately dropped here.
			if _, err := tx.CreateUser(ctx, ledger.User{
				FirstName:    rec.FirstName,
				LastName:     rec.LastName,
				Email:        rec.Email,
				CompanyID:    rec.CompanyID,
				EmailStatus:  rec.EmailStatus,
				ActiveStatus: rec.ActiveStatus,
				Tokens:       rec.Tokens,
			}); err != nil {
				return &RecordError{Entity: "User", Index: i, Record: rec, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("ingestion complete",
		slog.Int("companies", len(companies)),
		slog.Int("users", len(users)))
	return nil
}
