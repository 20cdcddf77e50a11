package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/service"
)

// CartServicer интерфейс исключительно для моков.
type CartServicer interface {
	Get(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error)
	AddItem(
		ctx context.Context,
		owner domain.CartOwner,
		menuItemID int64,
		quantity int32,
		unitPrice decimal.Decimal,
	) (*domain.Cart, error)
	UpdateItem(ctx context.Context, owner domain.CartOwner, menuItemID int64, quantity int32) (*domain.Cart, error)
	RemoveItem(ctx context.Context, owner domain.CartOwner, menuItemID int64) (*domain.Cart, error)
}

type CheckoutServicer interface {
	Checkout(ctx context.Context, args service.CheckoutArgs) (*service.CheckoutResult, error)
	ConfirmGatewayCallback(ctx context.Context, query url.Values) (*domain.Payment, error)
}

type OrderServicer interface {
	GetByID(ctx context.Context, orderID int64) (*service.OrderDetails, error)
	GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatusType) error
	Cancel(ctx context.Context, orderID int64, reason string) error
	Delete(ctx context.Context, orderID int64) error
}

type WalletServicer interface {
	Topup(ctx context.Context, customerID int64, amount decimal.Decimal, description string) (*domain.WalletTransaction, error)
	Balance(ctx context.Context, customerID int64) (decimal.Decimal, error)
	Transactions(ctx context.Context, customerID int64) ([]domain.WalletTransaction, error)
}

type TierServicer interface {
	Classify(ctx context.Context, customerID int64) (*domain.TierInfo, error)
}

type ReportServicer interface {
	DailyRevenue(ctx context.Context, day time.Time) (decimal.Decimal, error)
	StatusCounts(ctx context.Context) (map[domain.OrderStatusType]int64, error)
}
