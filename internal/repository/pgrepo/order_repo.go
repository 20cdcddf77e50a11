package pgrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, created_at, updated_at, customer_id, total_amount, status, address, notes`

// Create вставляет заказ вместе с позициями. Позиции после создания
// неизменяемы.
func (r *OrderRepository) Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO orders (customer_id, total_amount, status, address, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		args.CustomerID, args.TotalAmount, args.Status, args.Address, args.Notes)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for customer %d", args.CustomerID)
	}

	batch := new(pgx.Batch)
	for _, item := range args.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id, order_id, menu_item_id, quantity, unit_price`,
			order.ID, item.MenuItemID, item.Quantity, item.UnitPrice)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	order.Items = make([]domain.OrderItem, len(args.Items))
	for i := range args.Items {
		var item domain.OrderItem
		scanErr := results.QueryRow().Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice)
		if scanErr != nil {
			return nil, convertErr(scanErr, "creating order item for order %d", order.ID)
		}
		order.Items[i] = item
	}

	return order, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "getting order by id %d", id)
	}

	items, itemsErr := r.itemsByOrderID(ctx, id)
	if itemsErr != nil {
		return nil, convertErr(itemsErr, "getting items of order %d", id)
	}
	order.Items = items
	return order, nil
}

// GetByIDForUpdate блокирует строку заказа до конца транзакции. Конкурирующие
// смены статуса одного заказа сериализуются через эту блокировку.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "locking order by id %d", id)
	}
	return order, nil
}

// GetByCustomerID возвращает заказы клиента, отсортированные по дате создания
// по убыванию. Позиции не подгружаются.
func (r *OrderRepository) GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, convertErr(err, "getting orders by customer %d", customerID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "getting orders by customer %d", customerID)
		}
		orders = append(orders, *order)
	}
	return orders, convertErr(rows.Err(), "getting orders by customer %d", customerID)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatusType) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return convertErr(err, "updating status of order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating status of order %d", id)
	}
	return nil
}

func (r *OrderRepository) AppendNotes(ctx context.Context, id int64, text string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET notes = TRIM(BOTH E'\n' FROM notes || E'\n' || $2), updated_at = now()
		WHERE id = $1`, id, text)
	if err != nil {
		return convertErr(err, "appending notes of order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "appending notes of order %d", id)
	}
	return nil
}

// SumCompletedForCustomerSince считает сумму тоталов завершенных заказов
// клиента, созданных начиная с from. Используется пересчетом уровня.
func (r *OrderRepository) SumCompletedForCustomerSince(
	ctx context.Context,
	customerID int64,
	from time.Time,
) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE customer_id = $1 AND status = $2 AND created_at >= $3`,
		customerID, domain.OrderStatusCompleted, from).Scan(&sum)
	if err != nil {
		return decimal.Zero, convertErr(err, "summing completed orders of customer %d", customerID)
	}
	return sum, nil
}

// SumCompletedBetween - выручка по завершенным заказам за полуинтервал
// [from, to).
func (r *OrderRepository) SumCompletedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE status = $1 AND created_at >= $2 AND created_at < $3`,
		domain.OrderStatusCompleted, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, convertErr(err, "summing completed orders")
	}
	return sum, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatusType]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, convertErr(err, "counting orders by status")
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatusType]int64)
	for rows.Next() {
		var status domain.OrderStatusType
		var count int64
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, convertErr(scanErr, "counting orders by status")
		}
		counts[status] = count
	}
	return counts, convertErr(rows.Err(), "counting orders by status")
}

// Delete жестко удаляет заказ. Позиции и платеж удаляются каскадом по FK.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting order %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting order %d", id)
	}
	return nil
}

func (r *OrderRepository) itemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, menu_item_id, quantity, unit_price
		FROM order_items WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if scanErr := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.UnitPrice); scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.CustomerID,
		&o.TotalAmount, &o.Status, &o.Address, &o.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
