// internal/model/customer.go
package model

import "fmt"

// Customer is the record served by the customer endpoints.
// Field order matches the JSON shape clients expect.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Paid    bool   `json:"paid"`
	ID      int    `json:"id"`
}

func (c Customer) String() string {
	return fmt.Sprintf("Customer(id=%d, name='%s', address='%s', paid=%t)", c.ID, c.Name, c.Address, c.Paid)
}
