package repository

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/unclebandit/customer-service/internal/model"
)

// idCounter hands out customer ids for the whole process, across every
// repository instance. The first id issued is 1.
var idCounter atomic.Int64

func nextID() int {
	return int(idCounter.Add(1))
}

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	ListAll() ([]model.Customer, error)
	GetByID(id int) (*model.Customer, error)
	FindByNameContains(substr string) ([]model.Customer, error)
	Create(name, address string, paid bool) (*model.Customer, error)
}

// CustomerRepository keeps customers in memory, in insertion order.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers []model.Customer
}

// NewCustomerRepository returns an empty repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: []model.Customer{}}
}

// SeedCustomers are inserted at startup, in this order.
var SeedCustomers = []model.Customer{
	{Name: "Bill Smith", Address: "123 Main St", Paid: false},
	{Name: "Jane Jackson", Address: "1245 Birch Ave", Paid: true},
	{Name: "Steve Stillwell", Address: "433 Peach Lane", Paid: true},
	{Name: "Mary McKenna", Address: "3454 Apple St", Paid: false},
}

// NewSeededCustomerRepository returns a repository holding SeedCustomers.
func NewSeededCustomerRepository() *CustomerRepository {
	r := NewCustomerRepository()
	for _, c := range SeedCustomers {
		// Create never fails for the in-memory store
		_, _ = r.Create(c.Name, c.Address, c.Paid)
	}
	return r
}

// ListAll returns a snapshot of all customers
func (r *CustomerRepository) ListAll() ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]model.Customer, len(r.customers))
	copy(customers, r.customers)
	return customers, nil
}

// GetByID returns the first customer with the given id, or nil if none matches.
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil // not found
}

// FindByNameContains returns customers whose name contains substr.
// Matching is case-sensitive. No match yields an empty, non-nil slice.
func (r *CustomerRepository) FindByNameContains(substr string) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := []model.Customer{}
	for _, c := range r.customers {
		if strings.Contains(c.Name, substr) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// Create assigns the next id and appends the customer.
func (r *CustomerRepository) Create(name, address string, paid bool) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := model.Customer{
		ID:      nextID(),
		Name:    name,
		Address: address,
		Paid:    paid,
	}
	r.customers = append(r.customers, c)
	return &c, nil
}
