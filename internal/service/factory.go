package service

import (
	"fmt"
	"time"

	"github.com/fsdevblog/groph-food/pkg/uow"
)

type AppServices struct {
	CartService     *CartService
	TierService     *TierService
	WalletService   *WalletService
	CheckoutService *CheckoutService
	OrderService    *OrderService
	ReportService   *ReportService
}

func Factory(unitOfWork uow.UOW, gateway GatewayClient, loc *time.Location) (*AppServices, error) {
	cartService, cartServiceErr := NewCartService(unitOfWork)
	if cartServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", cartServiceErr.Error())
	}

	tierService := NewTierService(unitOfWork, loc)

	walletService, walletServiceErr := NewWalletService(unitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	checkoutService := NewCheckoutService(unitOfWork, tierService, gateway, loc)

	orderService, orderServiceErr := NewOrderService(unitOfWork, tierService)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	reportService, reportServiceErr := NewReportService(unitOfWork, loc)
	if reportServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", reportServiceErr.Error())
	}

	return &AppServices{
		CartService:     cartService,
		TierService:     tierService,
		WalletService:   walletService,
		CheckoutService: checkoutService,
		OrderService:    orderService,
		ReportService:   reportService,
	}, nil
}
