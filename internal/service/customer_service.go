// internal/service/customer_service.go
package service

import (
	"fmt"
	"log/slog"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/logging"
	"github.com/unclebandit/customer-service/internal/model"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/repository"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	// Queue receives a CustomerEvent per created customer. Optional.
	Queue  queue.Queue
	Logger *slog.Logger
}

// CreateCustomerInput carries the form fields of a create request.
// A nil Name means the field was absent.
type CreateCustomerInput struct {
	Name    *string
	Address string
	Paid    bool
}

func (s *CustomerService) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.Nop()
	}
	return s.Logger
}

func (s *CustomerService) ListCustomers() ([]model.Customer, error) {
	customers, err := s.CustomerRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// GetCustomer returns ErrCustomerNotFound when id was never issued.
func (s *CustomerService) GetCustomer(id int) (*model.Customer, error) {
	customer, err := s.CustomerRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	if customer == nil {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return customer, nil
}

// FindCustomersByName returns customers whose name contains name.
func (s *CustomerService) FindCustomersByName(name *string) ([]model.Customer, error) {
	if name == nil {
		return nil, appErrors.ErrMissingName
	}

	matches, err := s.CustomerRepo.FindByNameContains(*name)
	if err != nil {
		return nil, fmt.Errorf("find customers by name: %w", err)
	}
	return matches, nil
}

// CreateCustomer appends a customer and publishes a customer.created event.
// Event delivery failures are logged and never fail the create.
func (s *CustomerService) CreateCustomer(in CreateCustomerInput) (*model.Customer, error) {
	if in.Name == nil {
		return nil, appErrors.ErrMissingName
	}

	customer, err := s.CustomerRepo.Create(*in.Name, in.Address, in.Paid)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	s.logger().Info("customer created", "customer_id", customer.ID, "name", customer.Name)

	if s.Queue != nil {
		event := model.NewCustomerCreatedEvent(*customer)
		if err := s.Queue.Publish(queue.TopicCustomerEvents, event); err != nil {
			s.logger().Warn("failed to publish customer event", "event_id", event.ID, "error", err)
		}
	}

	return customer, nil
}
