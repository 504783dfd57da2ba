// internal/controller/customer_controller.go
package controller

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/customer-service/internal/errors"
	"github.com/unclebandit/customer-service/internal/httputil"
	"github.com/unclebandit/customer-service/internal/service"
)

const (
	msgCustomerNotFound = "Customer not found"
	msgMissingName      = "Missing name"
	msgInvalidForm      = "Invalid form body"

	maxFormMemory = 1 << 20
)

type CustomerController struct {
	CustomerService *service.CustomerService
}

// writeError maps service errors to status codes with a plain-text message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case appErrors.IsCustomerNotFound(err):
		httputil.WritePlain(w, http.StatusNotFound, msgCustomerNotFound)
	case errors.Is(err, appErrors.ErrMissingName):
		httputil.WritePlain(w, http.StatusBadRequest, msgMissingName)
	default:
		httputil.WritePlain(w, http.StatusInternalServerError, err.Error())
	}
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := c.CustomerService.ListCustomers()
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, customers)
}

// GetCustomer treats a non-numeric id as -1, which never matches.
func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		id = -1
	}

	customer, err := c.CustomerService.GetCustomer(id)
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) QueryCustomers(w http.ResponseWriter, r *http.Request) {
	var name *string
	if values, ok := r.URL.Query()["name"]; ok && len(values) > 0 {
		name = &values[0]
	}

	matches, err := c.CustomerService.FindCustomersByName(name)
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, matches)
}

// CreateCustomer reads name, address and paid from a form body. Address
// defaults to "". Paid is true only for a case-insensitive "true".
func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		httputil.WritePlain(w, http.StatusBadRequest, msgInvalidForm)
		return
	}

	in := service.CreateCustomerInput{
		Address: r.PostFormValue("address"),
	}
	if values, ok := r.PostForm["name"]; ok && len(values) > 0 {
		in.Name = &values[0]
	}
	in.Paid = strings.EqualFold(r.PostFormValue("paid"), "true")

	customer, err := c.CustomerService.CreateCustomer(in)
	if err != nil {
		writeError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, customer)
}

func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}
