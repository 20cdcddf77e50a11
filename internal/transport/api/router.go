package api

import (
	"time"

	"github.com/fsdevblog/groph-food/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	CartRoute      = "/cart"
	CartItemsRoute = "/cart/items"
	CartItemRoute  = "/cart/items/:menuItemID"

	CheckoutRoute      = "/checkout"
	GatewayReturnRoute = "/payment/vnpay-return"

	OrdersRoute      = "/orders"
	OrderRoute       = "/orders/:orderID"
	OrderCancelRoute = "/orders/:orderID/cancel"

	WalletRoute             = "/wallet"
	WalletTopupRoute        = "/wallet/topup"
	WalletTransactionsRoute = "/wallet/transactions"

	TierRoute = "/tier"

	AdminOrderRoute        = "/admin/orders/:orderID"
	AdminOrderStatusRoute  = "/admin/orders/:orderID/status"
	AdminRevenueRoute      = "/admin/reports/revenue"
	AdminStatusCountsRoute = "/admin/reports/status-counts"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	CartService     CartServicer
	CheckoutService CheckoutServicer
	OrderService    OrderServicer
	WalletService   WalletServicer
	TierService     TierServicer
	ReportService   ReportServicer
	JWTSecretKey    []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	cartHandler := NewCartHandler(args.CartService)
	checkoutHandler := NewCheckoutHandler(args.CheckoutService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	walletHandler := NewWalletHandler(args.WalletService)
	tierHandler := NewTierHandler(args.TierService)
	adminHandler := NewAdminHandler(args.OrderService, args.ReportService)

	api := r.Group(RouteGroup)

	// Корзина доступна и анонимной сессии, и авторизованному клиенту.
	cart := api.Group("", middlewares.SessionTokenMiddleware(args.JWTSecretKey))
	cart.GET(CartRoute, cartHandler.Show)
	cart.POST(CartItemsRoute, cartHandler.AddItem)
	cart.PATCH(CartItemRoute, cartHandler.UpdateItem)
	cart.DELETE(CartItemRoute, cartHandler.RemoveItem)

	// Возврат со страницы шлюза приходит редиректом браузера, без токена.
	api.GET(GatewayReturnRoute, checkoutHandler.GatewayReturn)

	authed := api.Group("", middlewares.AuthRequiredMiddleware(args.JWTSecretKey))
	authed.POST(CheckoutRoute, checkoutHandler.Create)

	authed.GET(OrdersRoute, ordersHandler.Index)
	authed.GET(OrderRoute, ordersHandler.Show)
	authed.POST(OrderCancelRoute, ordersHandler.Cancel)

	authed.GET(WalletRoute, walletHandler.Show)
	authed.POST(WalletTopupRoute, walletHandler.Topup)
	authed.GET(WalletTransactionsRoute, walletHandler.Transactions)

	authed.GET(TierRoute, tierHandler.Show)

	admin := authed.Group("", middlewares.AdminRequiredMiddleware())
	admin.PATCH(AdminOrderStatusRoute, adminHandler.UpdateOrderStatus)
	admin.DELETE(AdminOrderRoute, adminHandler.DeleteOrder)
	admin.GET(AdminRevenueRoute, adminHandler.DailyRevenue)
	admin.GET(AdminStatusCountsRoute, adminHandler.StatusCounts)

	return r, nil
}
