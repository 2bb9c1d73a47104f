package domain

import "time"

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

type Order struct {
	ID              int64
	CustomerID      int64
	OrderNumber     string
	TrackingCode    string
	Status          Status
	PaymentStatus   PaymentStatus
	TotalFils       int64
	Currency        string
	Locale          string
	WhatsappNumber  string
	DeliveryAddress string
	DeliveryCity    string
	DeliveryNotes   string
	DeliveryETAMin  *int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items    []Item
	Customer Customer
}

// Item is a line snapshot: the unit price is copied from the meal at order
// time and never recalculated, since menu prices may change later.
type Item struct {
	ID            int64
	OrderID       int64
	MealID        int64
	MealNameEN    string
	MealNameAR    string
	Quantity      int
	UnitPriceFils int64
	TotalFils     int64
}

// MealName returns the snapshot's localized meal name.
func (i Item) MealName(locale string) string {
	if locale == "ar" && i.MealNameAR != "" {
		return i.MealNameAR
	}
	return i.MealNameEN
}

// Customer is matched by (email, phone) with first-match-or-create
// semantics across orders.
type Customer struct {
	ID              int64
	Name            string
	Email           string
	Phone           string
	WhatsappNumber  string
	PreferredLocale string
	AddressLine     string
	City            string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeliveryTracking mirrors the order status for the public tracking view.
type DeliveryTracking struct {
	ID        int64
	OrderID   int64
	Status    Status
	Location  string
	ETA       string
	Notes     string
	UpdatedAt time.Time
}

type Rating struct {
	ID         int64
	OrderID    int64
	CustomerID int64
	Score      int
	Comment    string
	Locale     string
	CreatedAt  time.Time
}
