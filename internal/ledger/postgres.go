package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/topup/internal/platform/db"
)

// users.company_id carries no foreign key on purpose: a user referencing a
// missing company is tolerated and simply never surfaces in any company's
// active set.
const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id           BIGINT PRIMARY KEY,
	name         TEXT NOT NULL,
	top_up       BIGINT NOT NULL,
	email_status BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	email         TEXT NOT NULL,
	company_id    BIGINT NOT NULL,
	email_status  BOOLEAN NOT NULL,
	active_status BOOLEAN NOT NULL,
	tokens        BIGINT NOT NULL,
	CONSTRAINT users_company_email_key UNIQUE (company_id, email)
);
`

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresStore is the pgx-backed Store implementation.
type PostgresStore struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a store over a connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool, pool: pool}
}

// EnsureSchema creates the companies and users tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ledger: ensure schema: %w", err)
	}
	return nil
}

// WithTx rebinds the store onto a single transaction for the duration of fn.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{db: tx, pool: s.pool})
	})
}

func (s *PostgresStore) CreateCompany(ctx context.Context, c Company) (Company, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO companies (id, name, top_up, email_status) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.TopUp, c.EmailStatus)
	if err != nil {
		return Company{}, mapConstraint(err)
	}
	return c, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, u User) (User, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, company_id, email_status, active_status, tokens)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.FirstName, u.LastName, u.Email, u.CompanyID, u.EmailStatus, u.ActiveStatus, u.Tokens,
	).Scan(&u.ID)
	if err != nil {
		return User{}, mapConstraint(err)
	}
	return u, nil
}

func (s *PostgresStore) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, top_up, email_status FROM companies ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ledger: list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TopUp, &c.EmailStatus); err != nil {
			return nil, fmt.Errorf("ledger: scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *PostgresStore) ActiveUsersOf(ctx context.Context, companyID int64) ([]User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, first_name, last_name, email, company_id, email_status, active_status, tokens
		 FROM users
		 WHERE company_id = $1 AND active_status
		 ORDER BY last_name ASC, id ASC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("ledger: active users of %d: %w", companyID, err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CompanyID, &u.EmailStatus, &u.ActiveStatus, &u.Tokens); err != nil {
			return nil, fmt.Errorf("ledger: scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) UpdateUserTokens(ctx context.Context, userID, tokens int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET tokens = $1 WHERE id = $2`, tokens, userID)
	if err != nil {
		return fmt.Errorf("ledger: update tokens for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapConstraint translates unique violations into ConstraintError so callers
// can match with errors.Is(err, ErrConstraint).
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &ConstraintError{Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
	}
	return err
}
