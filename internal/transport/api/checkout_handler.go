package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/service"
	"github.com/fsdevblog/groph-food/internal/transport/vnpay"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CheckoutHandler struct {
	checkoutSvs CheckoutServicer
}

func NewCheckoutHandler(checkoutSvs CheckoutServicer) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutSvs: checkoutSvs,
	}
}

type CheckoutParams struct {
	DeliveryAddress string `binding:"required,max_bytes=500"  json:"delivery_address"`
	Notes           string `binding:"max_bytes=1000"          json:"notes"`
	Method          string `binding:"required,payment_method" json:"payment_method"`
}

type CheckoutResponse struct {
	OrderID     int64           `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	WalletUsed  decimal.Decimal `json:"wallet_used"`
	Method      string          `json:"payment_method"`
	Amount      decimal.Decimal `json:"payment_amount"`
	Status      string          `json:"payment_status"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

// Create POST RouteGroup + CheckoutRoute. Оформляет заказ из корзины
// текущего клиента.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var params CheckoutParams
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

	result, err := h.checkoutSvs.Checkout(ctx, service.CheckoutArgs{
		CustomerID:      getUserIDFromContext(c),
		DeliveryAddress: params.DeliveryAddress,
		Notes:           params.Notes,
		Method:          domain.PaymentMethod(params.Method),
		ClientIP:        c.ClientIP(),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{
		OrderID:     result.Order.ID,
		TotalAmount: result.Order.TotalAmount,
		WalletUsed:  result.WalletUsed,
		Method:      string(result.Payment.Method),
		Amount:      result.Payment.Amount,
		Status:      string(result.Payment.Status),
		RedirectURL: result.RedirectURL,
	})
}

// GatewayReturn GET RouteGroup + GatewayReturnRoute. Возврат клиента со
// страницы оплаты шлюза. Подпись запроса проверяется до каких-либо изменений,
// отклоненный шлюзом платеж не ошибка транспорта.
func (h *CheckoutHandler) GatewayReturn(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	payment, err := h.checkoutSvs.ConfirmGatewayCallback(ctx, c.Request.URL.Query())
	if err != nil {
		var rejectedErr *vnpay.RejectedError
		if errors.As(err, &rejectedErr) {
			c.JSON(http.StatusOK, gin.H{
				"order_id":      rejectedErr.OrderID,
				"status":        "failed",
				"response_code": rejectedErr.ResponseCode,
			})
			return
		}
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": payment.OrderID,
		"status":   string(payment.Status),
	})
}
