package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderResponse struct {
	ID          int64                  `json:"id"`
	CreatedAt   time.Time              `json:"created_at"`
	TotalAmount decimal.Decimal        `json:"total_amount"`
	Status      domain.OrderStatusType `json:"status"`
	Address     string                 `json:"address"`
}

type OrderItemResponse struct {
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int32           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type PaymentResponse struct {
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

type OrderDetailsResponse struct {
	OrderResponse
	Notes   string              `json:"notes,omitempty"`
	Items   []OrderItemResponse `json:"items"`
	Payment *PaymentResponse    `json:"payment,omitempty"`
}

// Index GET RouteGroup + OrdersRoute. Заказы текущего клиента, новые первыми.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()
	orders, err := o.orderSvs.GetByCustomerID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = OrderResponse{
			ID:          order.ID,
			CreatedAt:   order.CreatedAt,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
			Address:     order.Address,
		}
	}

	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + OrderRoute. Заказ с позициями и платежом. Чужой заказ
// отдается как not found, чтобы не раскрывать существование заказа.
func (o *OrdersHandler) Show(c *gin.Context) {
	orderID, idErr := orderIDParam(c)
	if idErr != nil {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := o.orderSvs.GetByID(reqCtx, orderID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if details.Order.CustomerID != getUserIDFromContext(c) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, newOrderDetailsResponse(details.Order, details.Payment))
}

type OrderCancelParams struct {
	Reason string `binding:"max_bytes=500" json:"reason"`
}

// Cancel POST RouteGroup + OrderCancelRoute. Отмена собственного заказа с
// возвратом средств в кошелек.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	orderID, idErr := orderIDParam(c)
	if idErr != nil {
		return
	}

	var params OrderCancelParams
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
			_ = c.AbortWithError(http.StatusBadRequest, bindErr).
				SetType(gin.ErrorTypeBind)
			return
		}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := o.orderSvs.GetByID(reqCtx, orderID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if details.Order.CustomerID != getUserIDFromContext(c) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if cancelErr := o.orderSvs.Cancel(reqCtx, orderID, params.Reason); cancelErr != nil {
		abortWithServiceError(c, cancelErr)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

func newOrderDetailsResponse(order *domain.Order, payment *domain.Payment) OrderDetailsResponse {
	response := OrderDetailsResponse{
		OrderResponse: OrderResponse{
			ID:          order.ID,
			CreatedAt:   order.CreatedAt,
			TotalAmount: order.TotalAmount,
			Status:      order.Status,
			Address:     order.Address,
		},
		Notes: order.Notes,
		Items: make([]OrderItemResponse, len(order.Items)),
	}
	for i, item := range order.Items {
		response.Items[i] = OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}
	if payment != nil {
		response.Payment = &PaymentResponse{
			Method:        string(payment.Method),
			Amount:        payment.Amount,
			Status:        string(payment.Status),
			TransactionID: payment.TransactionID,
			CompletedAt:   payment.CompletedAt,
		}
	}
	return response
}

func orderIDParam(c *gin.Context) (int64, error) {
	orderID, err := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		if err == nil {
			err = errors.New("non positive order id")
		}
		return 0, err
	}
	return orderID, nil
}
