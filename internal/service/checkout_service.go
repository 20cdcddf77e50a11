package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/shopspring/decimal"
)

// Пороги доставки в донгах. Ниже порога к заказу прибавляется фиксированная
// стоимость доставки.
var (
	freeShippingThreshold = decimal.NewFromInt(500_000)
	shippingFee           = decimal.NewFromInt(35_000)
)

// CheckoutService превращает корзину в заказ. Порядок расчета фиксированный:
// подытог, доставка, скидка уровня от суммы с доставкой, затем кошелек
// покрывает сколько может, остаток уходит выбранному методу оплаты.
type CheckoutService struct {
	uow     uow.UOW
	tier    TierClassifier
	gateway GatewayClient
	loc     *time.Location
	now     func() time.Time
}

func NewCheckoutService(u uow.UOW, tier TierClassifier, gateway GatewayClient, loc *time.Location) *CheckoutService {
	return &CheckoutService{
		uow:     u,
		tier:    tier,
		gateway: gateway,
		loc:     loc,
		now:     time.Now,
	}
}

type CheckoutArgs struct {
	CustomerID      int64
	DeliveryAddress string
	Notes           string
	Method          domain.PaymentMethod
	ClientIP        string
}

// CheckoutResult - итог чекаута. RedirectURL непустой только для vnpay
// с ненулевым остатком к оплате.
type CheckoutResult struct {
	Order       *domain.Order
	Payment     *domain.Payment
	WalletUsed  decimal.Decimal
	RedirectURL string
}

// Checkout оформляет заказ из корзины клиента.
//
// Алгоритм работы:
//  1. Пересчитывается уровень клиента - скидка всегда берется от свежего
//     уровня, а не от денормализованного поля.
//  2. В одной транзакции: блокируется строка клиента, считается тотал,
//     создается заказ с копией позиций корзины, списывается кошелек
//     (сколько есть, но не больше тотала), создается запись платежа на
//     остаток, корзина очищается.
//  3. Для vnpay с ненулевым остатком после коммита строится урл редиректа.
//
// Заказ с полностью покрытым кошельком тоталом получает платеж методом
// wallet на ноль, сразу completed.
func (s *CheckoutService) Checkout(ctx context.Context, args CheckoutArgs) (*CheckoutResult, error) {
	if args.DeliveryAddress == "" {
		return nil, fmt.Errorf("%w: delivery address is required", domain.ErrValidation)
	}
	if args.Method != domain.PaymentMethodCOD && args.Method != domain.PaymentMethodVNPay {
		return nil, fmt.Errorf("%w: unsupported payment method %q", domain.ErrValidation, args.Method)
	}

	tierInfo, tierErr := s.tier.Classify(ctx, args.CustomerID)
	if tierErr != nil {
		return nil, tierErr //nolint:wrapcheck
	}

	result := &CheckoutResult{}
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		return s.checkoutTx(c, tx, args, tierInfo.DiscountPct, result)
	})
	if txErr != nil {
		return nil, fmt.Errorf("checking out customer %d: %w", args.CustomerID, txErr)
	}

	if args.Method == domain.PaymentMethodVNPay && result.Payment.Amount.IsPositive() {
		orderInfo := fmt.Sprintf("Thanh toan don hang %d", result.Order.ID)
		redirectURL, urlErr := s.gateway.BuildPaymentURL(result.Order.ID, result.Payment.Amount, orderInfo, args.ClientIP)
		if urlErr != nil {
			return nil, urlErr //nolint:wrapcheck
		}
		result.RedirectURL = redirectURL
	}
	return result, nil
}

func (s *CheckoutService) checkoutTx(
	ctx context.Context,
	tx uow.TX,
	args CheckoutArgs,
	discountPct int64,
	result *CheckoutResult,
) error {
	cartRepo, cartRepoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
	if cartRepoErr != nil {
		return cartRepoErr //nolint:wrapcheck
	}
	customerRepo, customerRepoErr := uow.GetAs[CustomerRepository](tx, uow.RepositoryName(repoargs.CustomerRepoName))
	if customerRepoErr != nil {
		return customerRepoErr //nolint:wrapcheck
	}
	orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return orderRepoErr //nolint:wrapcheck
	}
	paymentRepo, paymentRepoErr := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
	if paymentRepoErr != nil {
		return paymentRepoErr //nolint:wrapcheck
	}
	walletRepo, walletRepoErr := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
	if walletRepoErr != nil {
		return walletRepoErr //nolint:wrapcheck
	}

	cart, cartErr := cartRepo.GetOrCreateByOwner(ctx, domain.AuthenticatedOwner(args.CustomerID))
	if cartErr != nil {
		return cartErr //nolint:wrapcheck
	}
	if len(cart.Items) == 0 {
		return fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	total := orderTotal(cart.Items, discountPct)

	// Блокировка строки клиента сериализует конкурентные чекауты и топапы
	// одного кошелька.
	customer, customerErr := customerRepo.GetByIDForUpdate(ctx, args.CustomerID)
	if customerErr != nil {
		return customerErr //nolint:wrapcheck
	}

	walletUsed := decimal.Min(customer.WalletBalance, total)
	if walletUsed.IsNegative() {
		walletUsed = decimal.Zero
	}
	remaining := total.Sub(walletUsed)

	orderItems := make([]repoargs.OrderItemCreate, len(cart.Items))
	for i, item := range cart.Items {
		orderItems[i] = repoargs.OrderItemCreate{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	order, orderErr := orderRepo.Create(ctx, repoargs.OrderCreate{
		CustomerID:  args.CustomerID,
		TotalAmount: total,
		Status:      domain.OrderStatusAwaitingConfirmation,
		Address:     args.DeliveryAddress,
		Notes:       args.Notes,
		Items:       orderItems,
	})
	if orderErr != nil {
		return orderErr //nolint:wrapcheck
	}

	if walletUsed.IsPositive() {
		_, applyErr := walletRepo.Apply(ctx, repoargs.WalletTransactionCreate{
			CustomerID:  args.CustomerID,
			Amount:      walletUsed.Neg(),
			Type:        domain.WalletTransactionPayment,
			Description: fmt.Sprintf("payment for order %d", order.ID),
			OrderID:     &order.ID,
		})
		if applyErr != nil {
			return applyErr //nolint:wrapcheck
		}
	}

	payment, paymentErr := paymentRepo.Create(ctx, buildPaymentCreate(order.ID, args.Method, remaining))
	if paymentErr != nil {
		return paymentErr //nolint:wrapcheck
	}

	if err := cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return err //nolint:wrapcheck
	}

	result.Order = order
	result.Payment = payment
	result.WalletUsed = walletUsed
	return nil
}

// buildPaymentCreate выбирает метод и статус платежа по остатку к оплате.
// Остаток ноль означает что кошелек покрыл все: метод wallet, сразу
// completed. Наложенный платеж остается pending до завершения заказа.
func buildPaymentCreate(orderID int64, method domain.PaymentMethod, remaining decimal.Decimal) repoargs.PaymentCreate {
	if remaining.IsZero() {
		return repoargs.PaymentCreate{
			OrderID: orderID,
			Method:  domain.PaymentMethodWallet,
			Amount:  decimal.Zero,
			Status:  domain.PaymentStatusCompleted,
		}
	}
	return repoargs.PaymentCreate{
		OrderID: orderID,
		Method:  method,
		Amount:  remaining,
		Status:  domain.PaymentStatusPending,
	}
}

// orderTotal: подытог позиций, плюс доставка ниже порога, минус скидка уровня
// от суммы с доставкой. Итог округляется до целых донгов.
func orderTotal(items []domain.CartItem, discountPct int64) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	preDiscount := subtotal
	if subtotal.LessThan(freeShippingThreshold) {
		preDiscount = preDiscount.Add(shippingFee)
	}

	discount := preDiscount.Mul(decimal.NewFromInt(discountPct)).Div(decimal.NewFromInt(100))
	return preDiscount.Sub(discount).Round(0)
}

// ConfirmGatewayCallback обрабатывает возврат клиента со страницы шлюза.
// Подпись и код ответа проверяет адаптер шлюза, здесь платеж переводится в
// completed. Повторный колбек по уже завершенному платежу не ошибка: шлюз
// может дернуть возврат больше одного раза.
func (s *CheckoutService) ConfirmGatewayCallback(ctx context.Context, query url.Values) (*domain.Payment, error) {
	callback, verifyErr := s.gateway.VerifyCallback(query)
	if verifyErr != nil {
		return nil, verifyErr //nolint:wrapcheck
	}

	var payment *domain.Payment
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		paymentRepo, repoErr := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		dbPayment, paymentErr := paymentRepo.GetByOrderIDForUpdate(c, callback.OrderID)
		if paymentErr != nil {
			return paymentErr //nolint:wrapcheck
		}
		if dbPayment.Status == domain.PaymentStatusCompleted {
			payment = dbPayment
			return nil
		}
		var completeErr error
		payment, completeErr = paymentRepo.Complete(c, repoargs.PaymentComplete{
			PaymentID:     dbPayment.ID,
			TransactionID: callback.TransactionID,
			CompletedAt:   s.now().In(s.loc),
		})
		return completeErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("confirming gateway callback for order %d: %w", callback.OrderID, txErr)
	}
	return payment, nil
}
