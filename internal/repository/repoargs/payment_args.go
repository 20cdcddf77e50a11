package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/shopspring/decimal"
)

type PaymentCreate struct {
	OrderID int64
	Method  domain.PaymentMethod
	Amount  decimal.Decimal
	Status  domain.PaymentStatusType
}

// PaymentComplete фиксирует подтверждение платежа шлюзом.
type PaymentComplete struct {
	PaymentID     int64
	TransactionID string
	CompletedAt   time.Time
}
