package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

// GetCustomers lists customers, optionally filtered by a search term.
func (c *Client) GetCustomers(ctx context.Context, search string) ([]entity.Customer, error) {
	path := "/customers"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var customers []entity.Customer
	if err := c.get(ctx, path, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches one customer by id.
func (c *Client) GetCustomer(ctx context.Context, id int) (*entity.Customer, error) {
	var customer entity.Customer
	if err := c.get(ctx, fmt.Sprintf("/customers/%d", id), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a customer.
func (c *Client) CreateCustomer(ctx context.Context, req entity.CreateCustomerRequest) (*entity.Customer, error) {
	var customer entity.Customer
	if err := c.post(ctx, "/customers", req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
