package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Name          string
	WalletBalance decimal.Decimal
	Tier          TierType
	MonthlySpend  decimal.Decimal
	TierUpdatedAt time.Time
}

// Cart - черновик заказа. Живет до первого успешного чекаута, после чего
// его позиции удаляются.
type Cart struct {
	ID           int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CustomerID   *int64
	SessionToken *string
	Items        []CartItem
}

// CartItem хранит цену на момент добавления в корзину. Последующие изменения
// цены в меню на корзину не влияют.
type CartItem struct {
	ID         int64
	CartID     int64
	MenuItemID int64
	Quantity   int32
	UnitPrice  decimal.Decimal
}

type Order struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CustomerID  int64
	TotalAmount decimal.Decimal
	Status      OrderStatusType
	Address     string
	Notes       string
	Items       []OrderItem
}

type OrderItem struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	Quantity   int32
	UnitPrice  decimal.Decimal
}

// Payment - единственная запись об оплате заказа (один к одному). Сумма
// платежа покрывает только ту часть тотала, которая не была списана с кошелька.
type Payment struct {
	ID            int64
	CreatedAt     time.Time
	OrderID       int64
	Method        PaymentMethod
	Amount        decimal.Decimal
	Status        PaymentStatusType
	TransactionID *string
	CompletedAt   *time.Time
}

// WalletTransaction - строка append-only леджера кошелька. Отрицательная сумма
// означает списание, положительная - зачисление. Строки никогда не
// редактируются и не удаляются; баланс кошелька - материализованная сумма
// строк по клиенту.
type WalletTransaction struct {
	ID          int64
	CreatedAt   time.Time
	CustomerID  int64
	Amount      decimal.Decimal
	Type        WalletTransactionType
	Description string
	OrderID     *int64
}

type WalletTransactionType string

const (
	WalletTransactionPayment WalletTransactionType = "payment"
	WalletTransactionRefund  WalletTransactionType = "refund"
	WalletTransactionTopup   WalletTransactionType = "topup"
)

type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodVNPay  PaymentMethod = "vnpay"
)

type PaymentStatusType string

const (
	PaymentStatusPending   PaymentStatusType = "pending"
	PaymentStatusCompleted PaymentStatusType = "completed"
)
