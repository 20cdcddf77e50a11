package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/shopspring/decimal"
)

// TierUpdate - денормализованное состояние уровня клиента, сохраняемое при
// каждом пересчете.
type TierUpdate struct {
	CustomerID    int64
	Tier          domain.TierType
	MonthlySpend  decimal.Decimal
	TierUpdatedAt time.Time
}
