package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alqabandi/burgerhouse/internal/notification/domain"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) InsertMessage(ctx context.Context, msg domain.Message) (domain.Message, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO whatsapp_messages (order_id, direction, type, recipient, body, payload)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		RETURNING id, created_at`,
		msg.OrderID, msg.Direction, msg.Type, msg.Recipient, msg.Body, msg.Payload).
		Scan(&msg.ID, &msg.CreatedAt)
	return msg, err
}

// FindOrderIDByNumber resolves an order number to its id, nil when no
// order matches. Inbound webhooks link opportunistically.
func (r *Repository) FindOrderIDByNumber(ctx context.Context, orderNumber string) (*int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM orders WHERE LOWER(order_number) = LOWER($1)`, orderNumber).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
