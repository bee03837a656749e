package customer

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNotFound = errors.New("customer not found")

// Directory is the read-only customer registry, built once at startup.
type Directory struct {
	customers map[string]Customer
	outlets   map[string]string
}

// NewDirectory validates the customers and indexes their outlets.
// Outlet aliases must be unique across the whole directory and may not
// shadow a customer id.
func NewDirectory(customers []Customer) (*Directory, error) {
	d := &Directory{
		customers: make(map[string]Customer, len(customers)),
		outlets:   make(map[string]string),
	}
	for _, c := range customers {
		if !ValidID(c.ID) {
			return nil, fmt.Errorf("invalid customer id %q", c.ID)
		}
		if err := c.Format.Validate(); err != nil {
			return nil, fmt.Errorf("customer %s: %w", c.ID, err)
		}
		if _, exists := d.customers[c.ID]; exists {
			return nil, fmt.Errorf("duplicate customer id %q", c.ID)
		}
		d.customers[c.ID] = c
	}
	for _, c := range customers {
		for _, outlet := range c.Outlets {
			if !ValidID(outlet) {
				return nil, fmt.Errorf("customer %s: invalid outlet %q", c.ID, outlet)
			}
			if owner, exists := d.outlets[outlet]; exists {
				return nil, fmt.Errorf("outlet %q is assigned to both %s and %s", outlet, owner, c.ID)
			}
			if _, exists := d.customers[outlet]; exists {
				return nil, fmt.Errorf("outlet %q of customer %s collides with a customer id", outlet, c.ID)
			}
			d.outlets[outlet] = c.ID
		}
	}
	return d, nil
}

// Get returns the customer with exactly this id
func (d *Directory) Get(id string) (Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

// Resolve looks the key up as a customer id first, then as an outlet alias.
func (d *Directory) Resolve(key string) (Customer, error) {
	if c, ok := d.customers[key]; ok {
		return c, nil
	}
	if owner, ok := d.outlets[key]; ok {
		return d.customers[owner], nil
	}
	return Customer{}, ErrNotFound
}

// List returns all customers ordered by id
func (d *Directory) List() []Customer {
	all := make([]Customer, 0, len(d.customers))
	for _, c := range d.customers {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Len returns the number of customers
func (d *Directory) Len() int {
	return len(d.customers)
}

// OutletCount returns the number of outlet aliases
func (d *Directory) OutletCount() int {
	return len(d.outlets)
}
