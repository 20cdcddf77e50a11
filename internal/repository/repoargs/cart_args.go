package repoargs

import "github.com/shopspring/decimal"

// CartItemUpsert - позиция корзины с зафиксированной на момент добавления
// ценой.
type CartItemUpsert struct {
	MenuItemID int64
	Quantity   int32
	UnitPrice  decimal.Decimal
}
