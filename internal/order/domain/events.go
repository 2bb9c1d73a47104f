package domain

// Event type strings stored on outbox rows and kafka headers.
const (
	EventStatusChanged = "OrderStatusChanged"
)

// StatusChanged is emitted whenever an order moves to a different status,
// whether by an operator or by a payment callback. The payload is
// denormalized so consumers can compose a customer message without a
// database round trip.
type StatusChanged struct {
	OrderID          int64  `json:"order_id"`
	OrderNumber      string `json:"order_number"`
	OldStatus        string `json:"old_status"`
	NewStatus        string `json:"new_status"`
	PaymentStatus    string `json:"payment_status"`
	TotalFils        int64  `json:"total_fils"`
	Currency         string `json:"currency"`
	Locale           string `json:"locale"`
	DeliveryETAMin   int    `json:"delivery_eta_minutes,omitempty"`
	CustomerName     string `json:"customer_name"`
	OrderWhatsapp    string `json:"order_whatsapp,omitempty"`
	CustomerWhatsapp string `json:"customer_whatsapp,omitempty"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
}
