package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	db uow.DBTX
}

func NewPaymentRepository(db uow.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, created_at, order_id, method, amount, status, transaction_id, completed_at`

// Create вставляет запись об оплате. Уникальный индекс по order_id
// гарантирует один платеж на заказ.
func (r *PaymentRepository) Create(ctx context.Context, args repoargs.PaymentCreate) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO payments (order_id, method, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+paymentColumns,
		args.OrderID, args.Method, args.Amount, args.Status)

	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "creating payment for order %d", args.OrderID)
	}
	return payment, nil
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "getting payment of order %d", orderID)
	}
	return payment, nil
}

// GetByOrderIDForUpdate блокирует платеж заказа. Повторный колбек шлюза по
// тому же заказу дождется завершения первого.
func (r *PaymentRepository) GetByOrderIDForUpdate(ctx context.Context, orderID int64) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 FOR UPDATE`, orderID)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "locking payment of order %d", orderID)
	}
	return payment, nil
}

func (r *PaymentRepository) Complete(ctx context.Context, args repoargs.PaymentComplete) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE payments
		SET status = $2, transaction_id = $3, completed_at = $4
		WHERE id = $1
		RETURNING `+paymentColumns,
		args.PaymentID, domain.PaymentStatusCompleted, args.TransactionID, args.CompletedAt)

	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "completing payment %d", args.PaymentID)
	}
	return payment, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.OrderID, &p.Method,
		&p.Amount, &p.Status, &p.TransactionID, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
