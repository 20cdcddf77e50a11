package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/gin-gonic/gin"
)

// AdminHandler - админские операции над заказами и сводки.
type AdminHandler struct {
	orderSvs  OrderServicer
	reportSvs ReportServicer
}

func NewAdminHandler(orderSvs OrderServicer, reportSvs ReportServicer) *AdminHandler {
	return &AdminHandler{
		orderSvs:  orderSvs,
		reportSvs: reportSvs,
	}
}

type OrderStatusUpdateParams struct {
	Status string `binding:"required" json:"status"`
}

// UpdateOrderStatus PATCH RouteGroup + AdminOrderStatusRoute.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, idErr := orderIDParam(c)
	if idErr != nil {
		return
	}

	var params OrderStatusUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	err := h.orderSvs.UpdateStatus(ctx, orderID, domain.OrderStatusType(params.Status))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

// DeleteOrder DELETE RouteGroup + AdminOrderRoute.
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	orderID, idErr := orderIDParam(c)
	if idErr != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.orderSvs.Delete(ctx, orderID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusOK)
}

// DailyRevenue GET RouteGroup + AdminRevenueRoute. Выручка за календарные
// сутки, параметр date в формате 2006-01-02. Без параметра берется сегодня.
func (h *AdminHandler) DailyRevenue(c *gin.Context) {
	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, parseErr := time.Parse(time.DateOnly, dateStr)
		if parseErr != nil {
			_ = c.AbortWithError(http.StatusBadRequest, errors.New("invalid date format, want YYYY-MM-DD")).
				SetType(gin.ErrorTypePublic)
			return
		}
		day = parsed
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	revenue, err := h.reportSvs.DailyRevenue(ctx, day)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":    day.Format(time.DateOnly),
		"revenue": revenue,
	})
}

// StatusCounts GET RouteGroup + AdminStatusCountsRoute.
func (h *AdminHandler) StatusCounts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	counts, err := h.reportSvs.StatusCounts(ctx)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
