package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletSvs WalletServicer
}

func NewWalletHandler(walletSvs WalletServicer) *WalletHandler {
	return &WalletHandler{
		walletSvs: walletSvs,
	}
}

// Show GET RouteGroup + WalletRoute.
func (h *WalletHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := h.walletSvs.Balance(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

type WalletTopupParams struct {
	Amount      decimal.Decimal `binding:"required"      json:"amount"`
	Description string          `binding:"max_bytes=255" json:"description"`
}

// Topup POST RouteGroup + WalletTopupRoute.
func (h *WalletHandler) Topup(c *gin.Context) {
	var params WalletTopupParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs.Error()})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	trans, err := h.walletSvs.Topup(ctx, getUserIDFromContext(c), params.Amount, params.Description)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transaction_id": trans.ID,
		"amount":         trans.Amount,
	})
}

type WalletTransactionResponse struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	OrderID     *int64          `json:"order_id,omitempty"`
}

// Transactions GET RouteGroup + WalletTransactionsRoute. Леджер кошелька,
// новые записи первыми.
func (h *WalletHandler) Transactions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := h.walletSvs.Transactions(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]WalletTransactionResponse, len(transactions))
	for i, trans := range transactions {
		response[i] = WalletTransactionResponse{
			ID:          trans.ID,
			CreatedAt:   trans.CreatedAt,
			Amount:      trans.Amount,
			Type:        string(trans.Type),
			Description: trans.Description,
			OrderID:     trans.OrderID,
		}
	}
	c.JSON(http.StatusOK, response)
}
