package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	cartSvs CartServicer
}

func NewCartHandler(cartSvs CartServicer) *CartHandler {
	return &CartHandler{
		cartSvs: cartSvs,
	}
}

type CartItemResponse struct {
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int32           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	ID       int64              `json:"id"`
	Items    []CartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	response := CartResponse{
		ID:       cart.ID,
		Items:    make([]CartItemResponse, len(cart.Items)),
		Subtotal: decimal.Zero,
	}
	for i, item := range cart.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))
		response.Items[i] = CartItemResponse{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  lineTotal,
		}
		response.Subtotal = response.Subtotal.Add(lineTotal)
	}
	return response
}

// Show GET RouteGroup + CartRoute.
func (h *CartHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cart, err := h.cartSvs.Get(ctx, cartOwnerFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

type CartItemAddParams struct {
	MenuItemID int64           `binding:"required,gt=0" json:"menu_item_id"`
	Quantity   int32           `binding:"required,gt=0" json:"quantity"`
	UnitPrice  decimal.Decimal `binding:"required"      json:"unit_price"`
}

// AddItem POST RouteGroup + CartItemsRoute.
func (h *CartHandler) AddItem(c *gin.Context) {
	var params CartItemAddParams
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

	cart, err := h.cartSvs.AddItem(ctx, cartOwnerFromContext(c), params.MenuItemID, params.Quantity, params.UnitPrice)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

type CartItemUpdateParams struct {
	Quantity int32 `binding:"required,gt=0" json:"quantity"`
}

// UpdateItem PATCH RouteGroup + CartItemRoute.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	menuItemID, idErr := menuItemIDParam(c)
	if idErr != nil {
		return
	}

	var params CartItemUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cart, err := h.cartSvs.UpdateItem(ctx, cartOwnerFromContext(c), menuItemID, params.Quantity)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

// RemoveItem DELETE RouteGroup + CartItemRoute.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	menuItemID, idErr := menuItemIDParam(c)
	if idErr != nil {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	cart, err := h.cartSvs.RemoveItem(ctx, cartOwnerFromContext(c), menuItemID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func menuItemIDParam(c *gin.Context) (int64, error) {
	menuItemID, err := strconv.ParseInt(c.Param("menuItemID"), 10, 64)
	if err != nil || menuItemID <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		if err == nil {
			err = errors.New("non positive menu item id")
		}
		return 0, err
	}
	return menuItemID, nil
}
