package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type WalletRepository struct {
	db uow.DBTX
}

func NewWalletRepository(db uow.DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

const walletTransactionColumns = `id, created_at, customer_id, amount, type, description, order_id`

// Apply добавляет строку леджера и в том же запросе двигает материализованный
// баланс клиента. Должен вызываться только внутри транзакции uow: иначе
// инвариант "баланс == сумма строк" не защищен откатом.
//
// Guard в UPDATE не дает балансу уйти в минус: списание сверх баланса
// возвращает domain.ErrInsufficientFunds и не оставляет никаких изменений.
func (r *WalletRepository) Apply(
	ctx context.Context,
	args repoargs.WalletTransactionCreate,
) (*domain.WalletTransaction, error) {
	var balance decimal.Decimal
	balanceErr := r.db.QueryRow(ctx, `
		UPDATE customers
		SET wallet_balance = wallet_balance + $2, updated_at = now()
		WHERE id = $1 AND wallet_balance + $2 >= 0
		RETURNING wallet_balance`,
		args.CustomerID, args.Amount).Scan(&balance)

	if balanceErr != nil {
		if errors.Is(balanceErr, pgx.ErrNoRows) {
			// либо клиента нет, либо не хватает средств
			var exists bool
			existsErr := r.db.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, args.CustomerID).Scan(&exists)
			if existsErr != nil {
				return nil, convertErr(existsErr, "applying wallet transaction for customer %d", args.CustomerID)
			}
			if exists {
				return nil, domain.ErrInsufficientFunds
			}
			return nil, convertErr(pgx.ErrNoRows, "applying wallet transaction for customer %d", args.CustomerID)
		}
		return nil, convertErr(balanceErr, "applying wallet transaction for customer %d", args.CustomerID)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO wallet_transactions (customer_id, amount, type, description, order_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+walletTransactionColumns,
		args.CustomerID, args.Amount, args.Type, args.Description, args.OrderID)

	transaction, err := scanWalletTransaction(row)
	if err != nil {
		return nil, convertErr(err, "applying wallet transaction for customer %d", args.CustomerID)
	}
	return transaction, nil
}

func (r *WalletRepository) GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT wallet_balance FROM customers WHERE id = $1`, customerID).Scan(&balance)
	if err != nil {
		return decimal.Zero, convertErr(err, "getting wallet balance of customer %d", customerID)
	}
	return balance, nil
}

// SumByOrderAndType суммирует строки леджера по заказу и типу. Источник правды
// для "сколько уже списано/возвращено по этому заказу".
func (r *WalletRepository) SumByOrderAndType(
	ctx context.Context,
	orderID int64,
	transactionType domain.WalletTransactionType,
) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions
		WHERE order_id = $1 AND type = $2`,
		orderID, transactionType).Scan(&sum)
	if err != nil {
		return decimal.Zero, convertErr(err, "summing wallet transactions of order %d", orderID)
	}
	return sum, nil
}

// GetByCustomerID возвращает историю леджера клиента, новые сверху.
func (r *WalletRepository) GetByCustomerID(ctx context.Context, customerID int64) ([]domain.WalletTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+walletTransactionColumns+` FROM wallet_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`, customerID)
	if err != nil {
		return nil, convertErr(err, "getting wallet transactions of customer %d", customerID)
	}
	defer rows.Close()

	var transactions []domain.WalletTransaction
	for rows.Next() {
		transaction, scanErr := scanWalletTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "getting wallet transactions of customer %d", customerID)
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, convertErr(rows.Err(), "getting wallet transactions of customer %d", customerID)
}

func scanWalletTransaction(row rowScanner) (*domain.WalletTransaction, error) {
	var t domain.WalletTransaction
	err := row.Scan(
		&t.ID, &t.CreatedAt, &t.CustomerID, &t.Amount,
		&t.Type, &t.Description, &t.OrderID,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
