package repoargs

import (
	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/shopspring/decimal"
)

// WalletTransactionCreate - строка леджера. Amount подписанная: списание
// отрицательное, зачисление положительное.
type WalletTransactionCreate struct {
	CustomerID  int64
	Amount      decimal.Decimal
	Type        domain.WalletTransactionType
	Description string
	OrderID     *int64
}
