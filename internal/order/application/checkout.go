package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

// ErrCodeCollision is returned by the repository when an order number or
// tracking code hits the unique index. The checkout service retries with
// fresh codes.
var ErrCodeCollision = errors.New("order code collision")

const codeRetries = 3

const defaultCurrency = "KWD"

type CustomerInput struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	WhatsappNumber string `json:"whatsapp_number"`
	Locale         string `json:"locale"`
}

type LineInput struct {
	MealID   int64 `json:"meal_id"`
	Quantity int   `json:"quantity"`
}

type CheckoutInput struct {
	Customer        CustomerInput `json:"customer"`
	DeliveryAddress string        `json:"delivery_address"`
	DeliveryCity    string        `json:"delivery_city"`
	DeliveryNotes   string        `json:"delivery_notes"`
	Items           []LineInput   `json:"items"`
}

// CheckoutService assembles a pending order from a cart payload: it
// resolves the customer, freezes current meal prices into line items, sums
// the total and opens a pending payment, all in one transaction.
type CheckoutService struct {
	log   *slog.Logger
	repo  Repository
	meals MealCatalog
}

func NewCheckoutService(log *slog.Logger, repo Repository, meals MealCatalog) *CheckoutService {
	return &CheckoutService{log: log, repo: repo, meals: meals}
}

func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (domain.Order, error) {
	if err := validateCheckout(in); err != nil {
		return domain.Order{}, err
	}

	locale := in.Customer.Locale
	if locale != "ar" {
		locale = "en"
	}

	ids := make([]int64, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.MealID)
	}
	meals, err := s.meals.FindByIDs(ctx, ids)
	if err != nil {
		return domain.Order{}, err
	}

	var total int64
	items := make([]domain.Item, 0, len(in.Items))
	for _, line := range in.Items {
		meal, ok := meals[line.MealID]
		if !ok {
			return domain.Order{}, apperr.NotFound(fmt.Sprintf("meal %d not found", line.MealID))
		}
		lineTotal := int64(line.Quantity) * meal.PriceFils
		total += lineTotal
		items = append(items, domain.Item{
			MealID:        meal.ID,
			MealNameEN:    meal.NameEN,
			MealNameAR:    meal.NameAR,
			Quantity:      line.Quantity,
			UnitPriceFils: meal.PriceFils,
			TotalFils:     lineTotal,
		})
	}

	whatsapp := in.Customer.WhatsappNumber
	if whatsapp == "" {
		whatsapp = in.Customer.Phone
	}

	rec := CheckoutRecord{
		Customer: domain.Customer{
			Name:            in.Customer.Name,
			Email:           in.Customer.Email,
			Phone:           in.Customer.Phone,
			WhatsappNumber:  whatsapp,
			PreferredLocale: locale,
			AddressLine:     in.DeliveryAddress,
			City:            in.DeliveryCity,
			Notes:           in.DeliveryNotes,
		},
		Order: domain.Order{
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentUnpaid,
			TotalFils:       total,
			Currency:        defaultCurrency,
			Locale:          locale,
			WhatsappNumber:  whatsapp,
			DeliveryAddress: in.DeliveryAddress,
			DeliveryCity:    in.DeliveryCity,
			DeliveryNotes:   in.DeliveryNotes,
			Items:           items,
		},
		PaymentProvider: "upayment",
	}

	// Fresh codes on every attempt; the unique indexes turn the
	// astronomically unlikely collision into a retryable error instead of
	// a corrupt order.
	for attempt := 0; attempt < codeRetries; attempt++ {
		rec.Order.OrderNumber = domain.NewOrderNumber()
		rec.Order.TrackingCode = domain.NewTrackingCode()
		rec.PaymentReference = domain.NewPaymentReference()

		order, err := s.repo.CreateCheckout(ctx, rec)
		if errors.Is(err, ErrCodeCollision) {
			s.log.Warn("order code collision, retrying", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return domain.Order{}, err
		}
		s.log.Info("checkout created",
			"order_id", order.ID, "order_number", order.OrderNumber, "total_fils", order.TotalFils)
		return order, nil
	}
	return domain.Order{}, fmt.Errorf("checkout: %w after %d attempts", ErrCodeCollision, codeRetries)
}

func validateCheckout(in CheckoutInput) error {
	fields := map[string]string{}
	if in.Customer.Name == "" {
		fields["customer.name"] = "required"
	}
	if in.Customer.Phone == "" {
		fields["customer.phone"] = "required"
	}
	if in.Customer.Locale != "" && in.Customer.Locale != "en" && in.Customer.Locale != "ar" {
		fields["customer.locale"] = "must be en or ar"
	}
	if len(in.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for i, line := range in.Items {
		if line.MealID <= 0 {
			fields[fmt.Sprintf("items.%d.meal_id", i)] = "required"
		}
		if line.Quantity < 1 {
			fields[fmt.Sprintf("items.%d.quantity", i)] = "must be at least 1"
		}
	}
	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}
