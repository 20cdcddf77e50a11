package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	db uow.DBTX
}

func NewCustomerRepository(db uow.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, created_at, updated_at, name, wallet_balance, tier, monthly_spend, tier_updated_at`

func (r *CustomerRepository) Create(ctx context.Context, name string) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO customers (name, tier)
		VALUES ($1, $2)
		RETURNING `+customerColumns, name, domain.TierBase)

	customer, err := scanCustomer(row)
	if err != nil {
		return nil, convertErr(err, "creating customer")
	}
	return customer, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)

	customer, err := scanCustomer(row)
	if err != nil {
		return nil, convertErr(err, "getting customer by id %d", id)
	}
	return customer, nil
}

// GetByIDForUpdate блокирует строку клиента до конца транзакции. Все операции
// с кошельком и уровнем одного клиента сериализуются через эту блокировку.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)

	customer, err := scanCustomer(row)
	if err != nil {
		return nil, convertErr(err, "locking customer by id %d", id)
	}
	return customer, nil
}

// UpdateTier сохраняет денормализованное состояние уровня клиента.
func (r *CustomerRepository) UpdateTier(ctx context.Context, args repoargs.TierUpdate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET tier = $2, monthly_spend = $3, tier_updated_at = $4, updated_at = now()
		WHERE id = $1`,
		args.CustomerID, args.Tier, args.MonthlySpend, args.TierUpdatedAt)
	if err != nil {
		return convertErr(err, "updating tier for customer %d", args.CustomerID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating tier for customer %d", args.CustomerID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name,
		&c.WalletBalance, &c.Tier, &c.MonthlySpend, &c.TierUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
