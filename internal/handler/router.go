// internal/handler/router.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/customer-service/internal/controller"
)

// ServerName is sent in the Server header of every response.
const ServerName = "customer-service"

// NewRouter wires every route of the service onto a chi router.
func NewRouter(customers *controller.CustomerController, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(DefaultHeaders(ServerName))
	r.Use(middleware.Compress(5, "text/plain", "text/html", "application/json"))

	r.Get("/", Root)
	r.Get("/plain-hello", PlainHello)
	r.Get("/html-hello", HTMLHello)
	r.Get("/healthz", Healthz)

	// Customer routes
	r.Get("/customers", customers.ListCustomers)
	r.Get("/customers/{id}", customers.GetCustomer)
	r.Get("/customer_query", customers.QueryCustomers)
	r.Post("/customers", customers.CreateCustomer)

	return r
}
