package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alqabandi/burgerhouse/internal/order/application"
	"github.com/alqabandi/burgerhouse/internal/order/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
	"github.com/alqabandi/burgerhouse/pkg/tracing"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

const uniqueViolation = "23505"

func (r *Repository) CreateCheckout(ctx context.Context, rec application.CheckoutRecord) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	customer, err := firstOrCreateCustomer(ctx, tx, rec.Customer)
	if err != nil {
		return domain.Order{}, err
	}

	o := rec.Order
	o.CustomerID = customer.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, order_number, tracking_code, status, payment_status,
			total_fils, currency, locale, whatsapp_number, delivery_address, delivery_city, delivery_notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NULLIF($9,''),NULLIF($10,''),NULLIF($11,''),NULLIF($12,''))
		RETURNING id, created_at, updated_at`,
		o.CustomerID, o.OrderNumber, o.TrackingCode, o.Status, o.PaymentStatus,
		o.TotalFils, o.Currency, o.Locale, o.WhatsappNumber,
		o.DeliveryAddress, o.DeliveryCity, o.DeliveryNotes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isCodeCollision(err) {
			return domain.Order{}, application.ErrCodeCollision
		}
		return domain.Order{}, err
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`INSERT INTO order_items (order_id, meal_id, quantity, unit_price_fils, total_fils)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, item.MealID, item.Quantity, item.UnitPriceFils, item.TotalFils)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return domain.Order{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (order_id, provider, status, amount_fils, currency, reference)
		VALUES ($1,$2,'pending',$3,$4,$5)`,
		o.ID, rec.PaymentProvider, o.TotalFils, o.Currency, rec.PaymentReference)
	if err != nil {
		return domain.Order{}, err
	}

	_, err = tx.Exec(ctx, `INSERT INTO delivery_trackings (order_id, status) VALUES ($1,$2)`,
		o.ID, o.Status)
	if err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	o.Customer = customer
	return o, nil
}

func firstOrCreateCustomer(ctx context.Context, tx pgx.Tx, c domain.Customer) (domain.Customer, error) {
	err := tx.QueryRow(ctx, `
		SELECT `+customerColumns+` FROM customers
		WHERE COALESCE(email,'') = $1 AND phone = $2
		ORDER BY id LIMIT 1`, c.Email, c.Phone).
		Scan(customerFields(&c)...)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, whatsapp_number, preferred_locale, address_line, city, notes)
		VALUES ($1,NULLIF($2,''),$3,NULLIF($4,''),$5,NULLIF($6,''),NULLIF($7,''),NULLIF($8,''))
		RETURNING id, created_at, updated_at`,
		c.Name, c.Email, c.Phone, c.WhatsappNumber, c.PreferredLocale, c.AddressLine, c.City, c.Notes).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

const customerColumns = `id, name, COALESCE(email,''), phone, COALESCE(whatsapp_number,''),
	preferred_locale, COALESCE(address_line,''), COALESCE(city,''), COALESCE(notes,''),
	created_at, updated_at`

func customerFields(c *domain.Customer) []any {
	return []any{&c.ID, &c.Name, &c.Email, &c.Phone, &c.WhatsappNumber,
		&c.PreferredLocale, &c.AddressLine, &c.City, &c.Notes, &c.CreatedAt, &c.UpdatedAt}
}

const OrderColumns = `o.id, o.customer_id, o.order_number, o.tracking_code, o.status, o.payment_status,
	o.total_fils, o.currency, o.locale, COALESCE(o.whatsapp_number,''),
	COALESCE(o.delivery_address,''), COALESCE(o.delivery_city,''), COALESCE(o.delivery_notes,''),
	o.delivery_eta_minutes, o.created_at, o.updated_at,
	c.id, c.name, COALESCE(c.email,''), c.phone, COALESCE(c.whatsapp_number,''),
	c.preferred_locale, COALESCE(c.address_line,''), COALESCE(c.city,''), COALESCE(c.notes,''),
	c.created_at, c.updated_at`

const OrderFrom = ` FROM orders o JOIN customers c ON c.id = o.customer_id `

func ScanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &o.TrackingCode, &o.Status, &o.PaymentStatus,
		&o.TotalFils, &o.Currency, &o.Locale, &o.WhatsappNumber,
		&o.DeliveryAddress, &o.DeliveryCity, &o.DeliveryNotes,
		&o.DeliveryETAMin, &o.CreatedAt, &o.UpdatedAt,
		&o.Customer.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.WhatsappNumber,
		&o.Customer.PreferredLocale, &o.Customer.AddressLine, &o.Customer.City, &o.Customer.Notes,
		&o.Customer.CreatedAt, &o.Customer.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, apperr.NotFound("order not found")
	}
	return o, err
}

func (r *Repository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	o, err := ScanOrder(r.pool.QueryRow(ctx, `SELECT `+OrderColumns+OrderFrom+`WHERE o.id = $1`, id))
	if err != nil {
		return domain.Order{}, err
	}
	return r.withItems(ctx, o)
}

func (r *Repository) GetByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	o, err := ScanOrder(r.pool.QueryRow(ctx,
		`SELECT `+OrderColumns+OrderFrom+`WHERE LOWER(o.order_number) = LOWER($1)`, orderNumber))
	if err != nil {
		return domain.Order{}, err
	}
	return r.withItems(ctx, o)
}

// FindByLookup resolves the four accepted spellings of a public order
// reference: order number, ORD-prefixed, tracking code, TRK-prefixed.
func (r *Repository) FindByLookup(ctx context.Context, term string) (domain.Order, error) {
	t := strings.ToLower(strings.TrimSpace(term))
	o, err := ScanOrder(r.pool.QueryRow(ctx, `
		SELECT `+OrderColumns+OrderFrom+`
		WHERE LOWER(o.order_number) = $1 OR LOWER(o.order_number) = $2
		   OR LOWER(o.tracking_code) = $1 OR LOWER(o.tracking_code) = $3
		LIMIT 1`,
		t, "ord-"+t, "trk-"+t))
	if err != nil {
		return domain.Order{}, err
	}
	return r.withItems(ctx, o)
}

func (r *Repository) withItems(ctx context.Context, o domain.Order) (domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.meal_id, m.name_en, m.name_ar, i.quantity, i.unit_price_fils, i.total_fils
		FROM order_items i JOIN meals m ON m.id = i.meal_id
		WHERE i.order_id = $1 ORDER BY i.id`, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MealID, &it.MealNameEN, &it.MealNameAR,
			&it.Quantity, &it.UnitPriceFils, &it.TotalFils); err != nil {
			return domain.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+OrderColumns+OrderFrom+`ORDER BY o.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := ScanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus locks the order row, applies the operator's patch, mirrors
// the status into delivery tracking and appends the outbox event — all in
// one transaction, so a concurrent payment callback cannot interleave.
func (r *Repository) UpdateStatus(ctx context.Context, upd application.StatusUpdate, eventFn application.StatusEventFunc) (domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	before, err := ScanOrder(tx.QueryRow(ctx,
		`SELECT `+OrderColumns+OrderFrom+`WHERE o.id = $1 FOR UPDATE OF o`, upd.OrderID))
	if err != nil {
		return domain.Order{}, err
	}

	after := before
	after.Status = upd.Status
	if upd.PaymentStatus != nil {
		after.PaymentStatus = *upd.PaymentStatus
	}
	if upd.DeliveryETAMin != nil {
		after.DeliveryETAMin = upd.DeliveryETAMin
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status=$2, payment_status=$3, delivery_eta_minutes=$4, updated_at=now()
		WHERE id=$1`,
		after.ID, after.Status, after.PaymentStatus, after.DeliveryETAMin)
	if err != nil {
		return domain.Order{}, err
	}
	_, err = tx.Exec(ctx,
		`UPDATE delivery_trackings SET status=$2, updated_at=now() WHERE order_id=$1`,
		after.ID, after.Status)
	if err != nil {
		return domain.Order{}, err
	}

	if err := InsertStatusEvent(ctx, tx, before, after, eventFn); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return after, nil
}

func (r *Repository) CreateRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ratings (order_id, customer_id, score, comment, locale)
		VALUES ($1,$2,$3,NULLIF($4,''),$5)
		RETURNING id, created_at`,
		rating.OrderID, rating.CustomerID, rating.Score, rating.Comment, rating.Locale).
		Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Rating{}, apperr.Conflict("order already rated")
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

func (r *Repository) GetRating(ctx context.Context, orderID int64) (*domain.Rating, error) {
	var rt domain.Rating
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_id, customer_id, score, COALESCE(comment,''), locale, created_at
		FROM ratings WHERE order_id = $1`, orderID).
		Scan(&rt.ID, &rt.OrderID, &rt.CustomerID, &rt.Score, &rt.Comment, &rt.Locale, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *Repository) GetDeliveryTracking(ctx context.Context, orderID int64) (domain.DeliveryTracking, error) {
	var dt domain.DeliveryTracking
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_id, status, COALESCE(location,''), COALESCE(eta,''), COALESCE(notes,''), updated_at
		FROM delivery_trackings WHERE order_id = $1`, orderID).
		Scan(&dt.ID, &dt.OrderID, &dt.Status, &dt.Location, &dt.ETA, &dt.Notes, &dt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DeliveryTracking{}, apperr.NotFound("delivery tracking not found")
	}
	return dt, err
}

// InsertStatusEvent runs the event builder and, when it yields a payload,
// appends the outbox row in the caller's transaction.
func InsertStatusEvent(ctx context.Context, tx pgx.Tx, before, after domain.Order, eventFn application.StatusEventFunc) error {
	if eventFn == nil {
		return nil
	}
	eventType, payload, err := eventFn(before, after)
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ('order', $1, $2, $3, $4, $5, 'pending')`,
		after.OrderNumber, eventType, payload,
		map[string]string{"source": "storefront"},
		tracing.TraceparentFromContext(ctx))
	return err
}

func isCodeCollision(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return strings.Contains(pgErr.ConstraintName, "order_number") ||
		strings.Contains(pgErr.ConstraintName, "tracking_code")
}
