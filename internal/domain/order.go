// Package domain provides the domain layer for orders.
// It contains the order model, status rules, projections and value objects.
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// placeholderEmail is what the backend sends for users without an email.
const placeholderEmail = "Not provided"

// UnknownCustomer is the display name used when no customer name is known.
const UnknownCustomer = "Unknown Customer"

// Amount is a monetary value. The backend sends it as a number or a numeric string.
type Amount float64

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// Customer is the user attached to an order. Every field is optional.
type Customer struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UnmarshalJSON accepts an unpopulated reference (a bare id string) as well as an object.
func (c *Customer) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*c = Customer{ID: id}
		return nil
	}
	type plain Customer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Customer(p)
	return nil
}

// RealEmail returns the email unless it is empty or the backend placeholder.
func (c *Customer) RealEmail() string {
	if c == nil {
		return ""
	}
	email := strings.TrimSpace(c.Email)
	if email == placeholderEmail {
		return ""
	}
	return email
}

// IsPopulated reports whether the customer carries a name, full name or real email.
func (c *Customer) IsPopulated() bool {
	if c == nil {
		return false
	}
	return c.Name != "" || c.FullName != "" || c.RealEmail() != ""
}

// DisplayName returns name, then full name, then UnknownCustomer.
func (c *Customer) DisplayName() string {
	if c != nil {
		if c.Name != "" {
			return c.Name
		}
		if c.FullName != "" {
			return c.FullName
		}
	}
	return UnknownCustomer
}

// Image is a product image reference.
type Image struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// ProductRef is the product summary embedded in a line item.
type ProductRef struct {
	ID     string  `json:"_id,omitempty"`
	Name   string  `json:"name,omitempty"`
	Slug   string  `json:"slug,omitempty"`
	Price  Amount  `json:"price,omitempty"`
	Brand  string  `json:"brand,omitempty"`
	Images []Image `json:"images,omitempty"`
}

// UnmarshalJSON accepts an unpopulated reference (a bare id string) as well as an object.
func (p *ProductRef) UnmarshalJSON(data []byte) error {
	if isJSONString(data) {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*p = ProductRef{ID: id}
		return nil
	}
	type plain ProductRef
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = ProductRef(v)
	return nil
}

// PrimaryImage returns the primary image URL, or the first one.
func (p *ProductRef) PrimaryImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	return p.Images[0].URL
}

// LineItem is one product line of an order.
type LineItem struct {
	Product  *ProductRef `json:"productId,omitempty"`
	Quantity int         `json:"quantity"`
	Price    Amount      `json:"price"`
	Size     string      `json:"size,omitempty"`
	Color    string      `json:"color,omitempty"`
}

// Address is a delivery address.
type Address struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Line1    string `json:"addressLine1,omitempty"`
	Line2    string `json:"addressLine2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

// StatusChange is one entry of an order's status history.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

// At returns the change timestamp, preferring updatedAt.
func (s StatusChange) At() *time.Time {
	if s.UpdatedAt != nil {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// Order is a customer purchase as served by the backend.
// Items is nil in the list projection and non-nil (possibly empty) in the detail projection.
type Order struct {
	ID               string         `json:"_id"`
	OrderNumber      string         `json:"orderId,omitempty"`
	Customer         *Customer      `json:"userId,omitempty"`
	Items            []LineItem     `json:"items,omitempty"`
	TotalAmount      Amount         `json:"totalAmount"`
	PaymentMethod    string         `json:"paymentMethod,omitempty"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus,omitempty"`
	OrderStatus      OrderStatus    `json:"orderStatus,omitempty"`
	StatusHistory    []StatusChange `json:"statusHistory,omitempty"`
	DeliveryAddress  *Address       `json:"deliveryAddress,omitempty"`
	GatewayOrderID   string         `json:"razorpayOrderId,omitempty"`
	GatewayPaymentID string         `json:"razorpayPaymentId,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// UnmarshalJSON preserves the list/detail distinction carried by the items field.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	var w struct {
		plain
		Items *[]LineItem `json:"items"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = Order(w.plain)
	o.Items = nil
	if w.Items != nil {
		o.Items = *w.Items
		if o.Items == nil {
			o.Items = []LineItem{}
		}
	}
	return nil
}

// MarshalJSON writes items as an array for detail projections and omits it for list projections.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	w := struct {
		plain
		Items *[]LineItem `json:"items,omitempty"`
	}{plain: plain(o)}
	if o.Items != nil {
		items := o.Items
		w.Items = &items
	}
	return json.Marshal(w)
}

// Key returns the identifier used to address the order in the backend.
func (o *Order) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return o.OrderNumber
}

// Matches reports whether id addresses this order.
func (o *Order) Matches(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && (o.ID == id || o.OrderNumber == id)
}

// IsDetailed reports whether this is a detail projection.
func (o *Order) IsDetailed() bool {
	return o.Items != nil
}

// CustomerName returns the display name of the order's customer.
func (o *Order) CustomerName() string {
	return o.Customer.DisplayName()
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	if o.Customer != nil {
		cust := *o.Customer
		c.Customer = &cust
	}
	if o.DeliveryAddress != nil {
		addr := *o.DeliveryAddress
		c.DeliveryAddress = &addr
	}
	if o.Items != nil {
		c.Items = make([]LineItem, len(o.Items))
		for i, item := range o.Items {
			c.Items[i] = item
			if item.Product != nil {
				p := *item.Product
				p.Images = append([]Image(nil), item.Product.Images...)
				c.Items[i].Product = &p
			}
		}
	}
	if o.StatusHistory != nil {
		c.StatusHistory = append([]StatusChange(nil), o.StatusHistory...)
	}
	return c
}

// Trimmed returns the compact projection stored in the local cache.
// Customers keep only identity fields and products keep only their first image.
func (o Order) Trimmed() Order {
	t := o.Clone()
	if t.Customer != nil {
		t.Customer = &Customer{
			ID:       t.Customer.ID,
			Name:     t.Customer.Name,
			FullName: t.Customer.FullName,
			Email:    t.Customer.Email,
			Phone:    t.Customer.Phone,
		}
	}
	for i := range t.Items {
		if p := t.Items[i].Product; p != nil && len(p.Images) > 1 {
			p.Images = p.Images[:1]
		}
	}
	return t
}

func isJSONString(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '"'
}
