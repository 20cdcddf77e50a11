package service

import (
	"context"
	"net/url"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/internal/transport/vnpay"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type CustomerRepository interface {
	Create(ctx context.Context, name string) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Customer, error)
	UpdateTier(ctx context.Context, args repoargs.TierUpdate) error
}

type CartRepository interface {
	GetOrCreateByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error)
	UpsertItem(ctx context.Context, cartID int64, item repoargs.CartItemUpsert) error
	UpdateItemQuantity(ctx context.Context, cartID, menuItemID int64, quantity int32) error
	RemoveItem(ctx context.Context, cartID, menuItemID int64) error
	ClearItems(ctx context.Context, cartID int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatusType) error
	AppendNotes(ctx context.Context, id int64, text string) error
	SumCompletedForCustomerSince(ctx context.Context, customerID int64, from time.Time) (decimal.Decimal, error)
	SumCompletedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatusType]int64, error)
	Delete(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, args repoargs.PaymentCreate) (*domain.Payment, error)
	GetByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
	GetByOrderIDForUpdate(ctx context.Context, orderID int64) (*domain.Payment, error)
	Complete(ctx context.Context, args repoargs.PaymentComplete) (*domain.Payment, error)
}

type WalletRepository interface {
	Apply(ctx context.Context, args repoargs.WalletTransactionCreate) (*domain.WalletTransaction, error)
	GetBalance(ctx context.Context, customerID int64) (decimal.Decimal, error)
	SumByOrderAndType(
		ctx context.Context,
		orderID int64,
		transactionType domain.WalletTransactionType,
	) (decimal.Decimal, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]domain.WalletTransaction, error)
}

// GatewayClient - адаптер платежного шлюза. Построение урла - локальное
// вычисление, сети за ним нет.
type GatewayClient interface {
	BuildPaymentURL(orderID int64, amount decimal.Decimal, orderInfo, clientIP string) (string, error)
	VerifyCallback(query url.Values) (*vnpay.CallbackResult, error)
}

// TierClassifier пересчитывает скидочный уровень клиента. ClassifyWithin
// работает в уже открытой транзакции вызывающей стороны.
type TierClassifier interface {
	Classify(ctx context.Context, customerID int64) (*domain.TierInfo, error)
	ClassifyWithin(ctx context.Context, tx uow.TX, customerID int64) (*domain.TierInfo, error)
}
