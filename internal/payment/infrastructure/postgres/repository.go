package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	orderapp "github.com/alqabandi/burgerhouse/internal/order/application"
	orderdomain "github.com/alqabandi/burgerhouse/internal/order/domain"
	orderpg "github.com/alqabandi/burgerhouse/internal/order/infrastructure/postgres"
	"github.com/alqabandi/burgerhouse/internal/payment/domain"
	"github.com/alqabandi/burgerhouse/pkg/apperr"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID int64) (domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx, `
		SELECT id, order_id, provider, status, amount_fils, currency, COALESCE(reference,''), meta, created_at, updated_at
		FROM payments WHERE order_id = $1`, orderID).
		Scan(&p.ID, &p.OrderID, &p.Provider, &p.Status, &p.AmountFils, &p.Currency,
			&p.Reference, &p.Meta, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, apperr.NotFound("payment not found")
	}
	return p, err
}

// AttachTrackID records the provider tracking id before the customer is
// redirected, so the callback can be correlated later.
func (r *Repository) AttachTrackID(ctx context.Context, orderID int64, trackID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE payments
		SET reference = $2,
		    meta = COALESCE(meta, '{}'::jsonb) || jsonb_build_object('track_id', $2::text),
		    updated_at = now()
		WHERE order_id = $1`, orderID, trackID)
	return err
}

func (r *Repository) MarkPaid(ctx context.Context, orderID int64, reference string, meta map[string]any, eventFn orderapp.StatusEventFunc) (orderdomain.Order, error) {
	return r.reconcile(ctx, orderID, reference, meta,
		orderdomain.StatusConfirmed, orderdomain.PaymentPaid, domain.StatusPaid, eventFn)
}

func (r *Repository) MarkFailed(ctx context.Context, orderID int64, reference string, meta map[string]any, eventFn orderapp.StatusEventFunc) (orderdomain.Order, error) {
	return r.reconcile(ctx, orderID, reference, meta,
		orderdomain.StatusPending, orderdomain.PaymentFailed, domain.StatusFailed, eventFn)
}

// reconcile applies a callback outcome to the order/payment pair under a
// row lock. An order whose payment_status is already paid is not in a
// payable state: the callback is a replay and must not rewrite anything.
func (r *Repository) reconcile(ctx context.Context, orderID int64, reference string, meta map[string]any,
	orderStatus orderdomain.Status, orderPayStatus orderdomain.PaymentStatus, payStatus domain.Status,
	eventFn orderapp.StatusEventFunc) (orderdomain.Order, error) {

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return orderdomain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	before, err := orderpg.ScanOrder(tx.QueryRow(ctx,
		`SELECT `+orderpg.OrderColumns+orderpg.OrderFrom+`WHERE o.id = $1 FOR UPDATE OF o`, orderID))
	if err != nil {
		return orderdomain.Order{}, err
	}
	if before.PaymentStatus == orderdomain.PaymentPaid {
		return orderdomain.Order{}, apperr.Conflict("payment already processed")
	}

	after := before
	after.Status = orderStatus
	after.PaymentStatus = orderPayStatus

	_, err = tx.Exec(ctx,
		`UPDATE orders SET status=$2, payment_status=$3, updated_at=now() WHERE id=$1`,
		orderID, after.Status, after.PaymentStatus)
	if err != nil {
		return orderdomain.Order{}, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE payments
		SET status = $2,
		    reference = COALESCE(NULLIF($3, ''), reference),
		    meta = COALESCE(meta, '{}'::jsonb) || $4,
		    updated_at = now()
		WHERE order_id = $1`,
		orderID, payStatus, reference, meta)
	if err != nil {
		return orderdomain.Order{}, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE delivery_trackings SET status=$2, updated_at=now() WHERE order_id=$1`,
		orderID, after.Status)
	if err != nil {
		return orderdomain.Order{}, err
	}

	if err := orderpg.InsertStatusEvent(ctx, tx, before, after, eventFn); err != nil {
		return orderdomain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return orderdomain.Order{}, err
	}
	return after, nil
}
