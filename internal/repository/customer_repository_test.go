package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetIDCounter(t *testing.T) {
	t.Helper()
	idCounter.Store(0)
}

func TestSeededRepositoryOrderAndIDs(t *testing.T) {
	resetIDCounter(t)
	repo := NewSeededCustomerRepository()

	customers, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, customers, 4)

	for i, c := range customers {
		assert.Equal(t, i+1, c.ID)
		assert.Equal(t, SeedCustomers[i].Name, c.Name)
		assert.Equal(t, SeedCustomers[i].Address, c.Address)
		assert.Equal(t, SeedCustomers[i].Paid, c.Paid)
	}
}

func TestGetByID(t *testing.T) {
	repo := NewSeededCustomerRepository()
	customers, _ := repo.ListAll()

	t.Run("existing id", func(t *testing.T) {
		c, err := repo.GetByID(customers[2].ID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Steve Stillwell", c.Name)
	})

	t.Run("unknown id", func(t *testing.T) {
		c, err := repo.GetByID(-1)
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestFindByNameContains(t *testing.T) {
	repo := NewSeededCustomerRepository()

	tests := []struct {
		name   string
		substr string
		want   []string
	}{
		{name: "single match", substr: "Smith", want: []string{"Bill Smith"}},
		{name: "several matches", substr: "ll", want: []string{"Bill Smith", "Steve Stillwell"}},
		{name: "case sensitive", substr: "smith", want: []string{}},
		{name: "empty substring matches all", substr: "", want: []string{"Bill Smith", "Jane Jackson", "Steve Stillwell", "Mary McKenna"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := repo.FindByNameContains(tt.substr)
			require.NoError(t, err)
			require.NotNil(t, matches)

			names := []string{}
			for _, c := range matches {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewSeededCustomerRepository()
	before, _ := repo.ListAll()

	c, err := repo.Create("Alice", "", false)
	require.NoError(t, err)

	for _, existing := range before {
		assert.Greater(t, c.ID, existing.ID)
	}

	after, _ := repo.ListAll()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, *c, after[len(after)-1])
}

func TestIDsAreSharedAcrossRepositories(t *testing.T) {
	a := NewCustomerRepository()
	b := NewCustomerRepository()

	first, _ := a.Create("A", "", false)
	second, _ := b.Create("B", "", false)

	assert.Equal(t, first.ID+1, second.ID)
}

func TestListAllReturnsSnapshot(t *testing.T) {
	repo := NewSeededCustomerRepository()

	customers, _ := repo.ListAll()
	customers[0].Name = "changed"

	again, _ := repo.ListAll()
	assert.Equal(t, "Bill Smith", again[0].Name)
}

func TestConcurrentCreate(t *testing.T) {
	repo := NewCustomerRepository()
	const workers = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = repo.Create("Concurrent", "", true)
		}()
	}
	wg.Wait()

	customers, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, customers, workers)

	seen := map[int]bool{}
	for i, c := range customers {
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
		if i > 0 {
			assert.Greater(t, c.ID, customers[i-1].ID)
		}
	}
}
