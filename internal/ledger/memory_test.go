package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateCompanyDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.CreateCompany(ctx, Company{ID: 1, Name: "Acme"})
	require.NoError(t, err)

	_, err = store.CreateCompany(ctx, Company{ID: 1, Name: "Acme Again"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)

	var cerr *ConstraintError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "companies_pkey", cerr.Constraint)
}

func TestMemoryStoreCreateUserAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	// A caller-supplied id must be discarded.
	first, err := store.CreateUser(ctx, User{ID: 99, FirstName: "A", LastName: "Lee", Email: "a@acme.test", CompanyID: 1})
	require.NoError(t, err)
	second, err := store.CreateUser(ctx, User{FirstName: "B", LastName: "Ng", Email: "b@acme.test", CompanyID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryStoreCreateUserDuplicateCompanyEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.CreateUser(ctx, User{FirstName: "A", LastName: "Lee", Email: "a@acme.test", CompanyID: 1})
	require.NoError(t, err)

	// Same email under another company is fine.
	_, err = store.CreateUser(ctx, User{FirstName: "A", LastName: "Lee", Email: "a@acme.test", CompanyID: 2})
	require.NoError(t, err)

	_, err = store.CreateUser(ctx, User{FirstName: "B", LastName: "Ng", Email: "a@acme.test", CompanyID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)

	var cerr *ConstraintError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "users_company_email_key", cerr.Constraint)
}

func TestMemoryStoreListCompaniesOrderedByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, id := range []int64{3, 1, 2} {
		_, err := store.CreateCompany(ctx, Company{ID: id, Name: "c"})
		require.NoError(t, err)
	}

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)
	assert.Equal(t, int64(1), companies[0].ID)
	assert.Equal(t, int64(2), companies[1].ID)
	assert.Equal(t, int64(3), companies[2].ID)
}

func TestMemoryStoreActiveUsersOrderedByLastName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	seed := []User{
		{FirstName: "A", LastName: "Ng", Email: "ng@acme.test", CompanyID: 1, ActiveStatus: true},
		{FirstName: "B", LastName: "Lee", Email: "lee@acme.test", CompanyID: 1, ActiveStatus: true},
		{FirstName: "C", LastName: "Lee", Email: "lee2@acme.test", CompanyID: 1, ActiveStatus: true},
		{FirstName: "D", LastName: "Adams", Email: "adams@acme.test", CompanyID: 1, ActiveStatus: false},
		{FirstName: "E", LastName: "Cho", Email: "cho@other.test", CompanyID: 2, ActiveStatus: true},
	}
	for _, u := range seed {
		_, err := store.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	users, err := store.ActiveUsersOf(ctx, 1)
	require.NoError(t, err)
	require.Len(t, users, 3)

	// Inactive and foreign-company users are invisible; equal last names
	// keep insertion order.
	assert.Equal(t, "B", users[0].FirstName)
	assert.Equal(t, "C", users[1].FirstName)
	assert.Equal(t, "Ng", users[2].LastName)
}

func TestMemoryStoreUpdateUserTokensNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.UpdateUserTokens(ctx, 42, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		_, err := tx.CreateCompany(ctx, Company{ID: 1, Name: "Acme"})
		require.NoError(t, err)
		_, err = tx.CreateUser(ctx, User{FirstName: "A", LastName: "Lee", Email: "a@acme.test", CompanyID: 1, ActiveStatus: true})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)

	users, err := store.ActiveUsersOf(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestMemoryStoreWithTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.WithTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.CreateCompany(ctx, Company{ID: 1, Name: "Acme"}); err != nil {
			return err
		}
		_, err := tx.CreateUser(ctx, User{FirstName: "A", LastName: "Lee", Email: "a@acme.test", CompanyID: 1, ActiveStatus: true})
		return err
	})
	require.NoError(t, err)

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 1)

	users, err := store.ActiveUsersOf(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
