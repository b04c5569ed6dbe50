package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MemoryStore keeps all rows in process memory. It backs tests and local dry
// runs (PG_DSN=memory) and mirrors the Postgres store's constraint and
// ordering behavior: caller-supplied unique company ids, a unique
// (company_id, email) pair per user, and active users collated by last name.
type MemoryStore struct {
	mu sync.Mutex
	st memState
}

type memState struct {
	companies  []Company
	users      []User
	nextUserID int64
}

func (s memState) clone() memState {
	cp := memState{
		companies:  make([]Company, len(s.companies)),
		users:      make([]User, len(s.users)),
		nextUserID: s.nextUserID,
	}
	copy(cp.companies, s.companies)
	copy(cp.users, s.users)
	return cp
}

var lastNameCollator = collate.New(language.English)

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: memState{nextUserID: 1}}
}

// WithTx runs fn against a copy of the store state; the copy replaces the
// live state only when fn returns nil, so a failed transaction leaves the
// store untouched.
func (m *MemoryStore) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txState := m.st.clone()
	if err := fn(ctx, &memTx{st: &txState}); err != nil {
		return err
	}
	m.st = txState
	return nil
}

func (m *MemoryStore) CreateCompany(ctx context.Context, c Company) (Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{st: &m.st}).CreateCompany(ctx, c)
}

func (m *MemoryStore) CreateUser(ctx context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{st: &m.st}).CreateUser(ctx, u)
}

func (m *MemoryStore) ListCompanies(ctx context.Context) ([]Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{st: &m.st}).ListCompanies(ctx)
}

func (m *MemoryStore) ActiveUsersOf(ctx context.Context, companyID int64) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{st: &m.st}).ActiveUsersOf(ctx, companyID)
}

func (m *MemoryStore) UpdateUserTokens(ctx context.Context, userID, tokens int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{st: &m.st}).UpdateUserTokens(ctx, userID, tokens)
}

// memTx is the transaction-scoped view over a (possibly cloned) state.
type memTx struct {
	st *memState
}

// WithTx inside an open transaction joins it rather than nesting.
func (t *memTx) WithTx(ctx context.Context, fn func(context.Context, Store) error) error {
	return fn(ctx, t)
}

func (t *memTx) CreateCompany(_ context.Context, c Company) (Company, error) {
	for _, existing := range t.st.companies {
		if existing.ID == c.ID {
			return Company{}, &ConstraintError{
				Constraint: "companies_pkey",
				Detail:     fmt.Sprintf("Key (id)=(%d) already exists.", c.ID),
			}
		}
	}
	t.st.companies = append(t.st.companies, c)
	return c, nil
}

func (t *memTx) CreateUser(_ context.Context, u User) (User, error) {
	for _, existing := range t.st.users {
		if existing.CompanyID == u.CompanyID && existing.Email == u.Email {
			return User{}, &ConstraintError{
				Constraint: "users_company_email_key",
				Detail:     fmt.Sprintf("Key (company_id, email)=(%d, %s) already exists.", u.CompanyID, u.Email),
			}
		}
	}
	u.ID = t.st.nextUserID
	t.st.nextUserID++
	t.st.users = append(t.st.users, u)
	return u, nil
}

func (t *memTx) ListCompanies(_ context.Context) ([]Company, error) {
	companies := make([]Company, len(t.st.companies))
	copy(companies, t.st.companies)
	sort.Slice(companies, func(i, j int) bool { return companies[i].ID < companies[j].ID })
	return companies, nil
}

func (t *memTx) ActiveUsersOf(_ context.Context, companyID int64) ([]User, error) {
	var users []User
	for _, u := range t.st.users {
		if u.CompanyID == companyID && u.ActiveStatus {
			users = append(users, u)
		}
	}
	// Stable sort keeps insertion order for equal last names, matching the
	// id tiebreak in the SQL ordering.
	sort.SliceStable(users, func(i, j int) bool {
		return lastNameCollator.CompareString(users[i].LastName, users[j].LastName) < 0
	})
	return users, nil
}

func (t *memTx) UpdateUserTokens(_ context.Context, userID, tokens int64) error {
	for i := range t.st.users {
		if t.st.users[i].ID == userID {
			t.st.users[i].Tokens = tokens
			return nil
		}
	}
	return ErrNotFound
}
