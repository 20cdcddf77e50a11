package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TierHandler struct {
	tierSvs TierServicer
}

func NewTierHandler(tierSvs TierServicer) *TierHandler {
	return &TierHandler{
		tierSvs: tierSvs,
	}
}

type TierResponse struct {
	Tier             string          `json:"tier"`
	MonthlySpend     decimal.Decimal `json:"monthly_spend"`
	DiscountPct      int64           `json:"discount_pct"`
	NextTier         *string         `json:"next_tier,omitempty"`
	AmountToNextTier decimal.Decimal `json:"amount_to_next_tier"`
}

// Show GET RouteGroup + TierRoute. Пересчитывает и возвращает уровень
// текущего клиента.
func (h *TierHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	info, err := h.tierSvs.Classify(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := TierResponse{
		Tier:             string(info.Tier),
		MonthlySpend:     info.MonthlySpend,
		DiscountPct:      info.DiscountPct,
		AmountToNextTier: info.AmountToNextTier,
	}
	if info.NextTier != nil {
		next := string(*info.NextTier)
		response.NextTier = &next
	}
	c.JSON(http.StatusOK, response)
}
