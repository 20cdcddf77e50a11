package repoargs

import (
	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderItemCreate struct {
	MenuItemID int64
	Quantity   int32
	UnitPrice  decimal.Decimal
}

// OrderCreate - заказ целиком на момент создания. Тотал считается один раз
// в сервисном слое и больше не пересчитывается.
type OrderCreate struct {
	CustomerID  int64
	TotalAmount decimal.Decimal
	Status      domain.OrderStatusType
	Address     string
	Notes       string
	Items       []OrderItemCreate
}
