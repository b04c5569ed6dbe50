package topup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/topup/internal/ledger"
)

func TestPartitionSplitsByBothEmailFlags(t *testing.T) {
	company := ledger.Company{ID: 1, Name: "Acme", EmailStatus: true}
	active := []ledger.User{
		{ID: 1, LastName: "Lee", EmailStatus: true},
		{ID: 2, LastName: "Ng", EmailStatus: false},
		{ID: 3, LastName: "Park", EmailStatus: true},
	}

	emailable, notEmailable := Partition(company, active)

	require.Len(t, emailable, 2)
	require.Len(t, notEmailable, 1)
	assert.Equal(t, "Lee", emailable[0].LastName)
	assert.Equal(t, "Park", emailable[1].LastName)
	assert.Equal(t, "Ng", notEmailable[0].LastName)
}

func TestPartitionCompanySwitchOffSendsNobody(t *testing.T) {
	company := ledger.Company{ID: 1, Name: "Acme", EmailStatus: false}
	active := []ledger.User{
		{ID: 1, LastName: "Lee", EmailStatus: true},
		{ID: 2, LastName: "Ng", EmailStatus: false},
	}

	emailable, notEmailable := Partition(company, active)

	assert.Empty(t, emailable)
	require.Len(t, notEmailable, 2)
	assert.Equal(t, "Lee", notEmailable[0].LastName)
	assert.Equal(t, "Ng", notEmailable[1].LastName)
}

func TestPartitionCoversActiveSetExactly(t *testing.T) {
	company := ledger.Company{ID: 1, EmailStatus: true}
	active := []ledger.User{
		{ID: 1, LastName: "A", EmailStatus: false},
		{ID: 2, LastName: "B", EmailStatus: true},
		{ID: 3, LastName: "C", EmailStatus: false},
		{ID: 4, LastName: "D", EmailStatus: true},
	}

	emailable, notEmailable := Partition(company, active)

	assert.Equal(t, len(active), len(emailable)+len(notEmailable))

	seen := map[int64]int{}
	for _, u := range emailable {
		seen[u.ID]++
	}
	for _, u := range notEmailable {
		seen[u.ID]++
	}
	for _, u := range active {
		assert.Equal(t, 1, seen[u.ID], "user %d must appear in exactly one group", u.ID)
	}
}

func TestPartitionEmptyActiveSet(t *testing.T) {
	emailable, notEmailable := Partition(ledger.Company{ID: 1, EmailStatus: true}, nil)
	assert.Empty(t, emailable)
	assert.Empty(t, notEmailable)
}
