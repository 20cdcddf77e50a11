package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
)

// deleteRetention - минимальный возраст завершенного заказа для удаления.
// Отмененные заказы удаляются без ограничения по возрасту.
const deleteRetention = 30 * 24 * time.Hour

// OrderService ведет жизненный цикл заказа после чекаута: смену статусов,
// отмену с возвратом средств и удаление.
type OrderService struct {
	uow       uow.UOW
	tier      TierClassifier
	orderRepo OrderRepository
	now       func() time.Time
}

func NewOrderService(u uow.UOW, tier TierClassifier) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		tier:      tier,
		orderRepo: orderRepo,
		now:       time.Now,
	}, nil
}

// OrderDetails - заказ вместе с его платежом для выдачи наружу.
type OrderDetails struct {
	Order   *domain.Order
	Payment *domain.Payment
}

// GetByID возвращает заказ с позициями и платежом.
func (o *OrderService) GetByID(ctx context.Context, orderID int64) (*OrderDetails, error) {
	var details OrderDetails
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		paymentRepo, paymentRepoErr := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
		if paymentRepoErr != nil {
			return paymentRepoErr //nolint:wrapcheck
		}
		order, orderErr := orderRepo.GetByID(c, orderID)
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}
		payment, paymentErr := paymentRepo.GetByOrderID(c, orderID)
		if paymentErr != nil && !errors.Is(paymentErr, domain.ErrRecordNotFound) {
			return paymentErr //nolint:wrapcheck
		}
		details.Order = order
		details.Payment = payment
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("getting order %d: %w", orderID, txErr)
	}
	return &details, nil
}

// GetByCustomerID возвращает заказы клиента, новые первыми.
func (o *OrderService) GetByCustomerID(ctx context.Context, customerID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// UpdateStatus переводит заказ в новый статус по карте допустимых переходов.
// Переход в cancelled идет через Cancel, чтобы не потерять возвраты.
// Переход в completed в той же транзакции пересчитывает уровень клиента:
// завершенный заказ сразу попадает в месячный оборот.
func (o *OrderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatusType) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", domain.ErrValidation, status)
	}
	if status == domain.OrderStatusCancelled {
		return o.Cancel(ctx, orderID, "")
	}

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		order, orderErr := orderRepo.GetByIDForUpdate(c, orderID)
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}
		if !order.Status.CanTransition(status) {
			return domain.NewInvalidTransitionError(order.Status, status)
		}
		if err := orderRepo.UpdateStatus(c, orderID, status); err != nil {
			return err //nolint:wrapcheck
		}
		if status == domain.OrderStatusCompleted {
			if _, err := o.tier.ClassifyWithin(c, tx, order.CustomerID); err != nil {
				return err //nolint:wrapcheck
			}
		}
		return nil
	})
	if txErr != nil {
		return fmt.Errorf("updating status of order %d: %w", orderID, txErr)
	}
	return nil
}

// Cancel отменяет заказ и возвращает средства. Суммы возвратов выводятся из
// леджера и записи платежа, а не из полей заказа: повторная отмена видит уже
// существующие возвраты и не дублирует их.
//
// Алгоритм работы:
//  1. Заказ блокируется, терминальный статус отклоняется.
//  2. Если возвратов по заказу еще нет, в кошелек зачисляются две части:
//     сумма завершенного платежа шлюза и все списанное с кошелька при
//     чекауте.
//  3. Статус меняется на cancelled, причина дописывается в примечания.
func (o *OrderService) Cancel(ctx context.Context, orderID int64, reason string) error {
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		order, orderErr := orderRepo.GetByIDForUpdate(c, orderID)
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}
		if !order.Status.CanTransition(domain.OrderStatusCancelled) {
			return domain.NewInvalidTransitionError(order.Status, domain.OrderStatusCancelled)
		}

		if err := o.refundOrder(c, tx, order); err != nil {
			return err
		}

		if err := orderRepo.UpdateStatus(c, orderID, domain.OrderStatusCancelled); err != nil {
			return err //nolint:wrapcheck
		}
		if reason != "" {
			note := fmt.Sprintf("[cancel reason: %s]", reason)
			if err := orderRepo.AppendNotes(c, orderID, note); err != nil {
				return err //nolint:wrapcheck
			}
		}
		return nil
	})
	if txErr != nil {
		return fmt.Errorf("cancelling order %d: %w", orderID, txErr)
	}
	return nil
}

func (o *OrderService) refundOrder(ctx context.Context, tx uow.TX, order *domain.Order) error {
	walletRepo, walletRepoErr := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
	if walletRepoErr != nil {
		return walletRepoErr //nolint:wrapcheck
	}
	paymentRepo, paymentRepoErr := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
	if paymentRepoErr != nil {
		return paymentRepoErr //nolint:wrapcheck
	}

	refunded, refundedErr := walletRepo.SumByOrderAndType(ctx, order.ID, domain.WalletTransactionRefund)
	if refundedErr != nil {
		return refundedErr //nolint:wrapcheck
	}
	if !refunded.IsZero() {
		// Возвраты уже проведены.
		return nil
	}

	payment, paymentErr := paymentRepo.GetByOrderID(ctx, order.ID)
	if paymentErr != nil && !errors.Is(paymentErr, domain.ErrRecordNotFound) {
		return paymentErr //nolint:wrapcheck
	}
	if payment != nil &&
		payment.Method == domain.PaymentMethodVNPay &&
		payment.Status == domain.PaymentStatusCompleted &&
		payment.Amount.IsPositive() {
		_, applyErr := walletRepo.Apply(ctx, repoargs.WalletTransactionCreate{
			CustomerID:  order.CustomerID,
			Amount:      payment.Amount,
			Type:        domain.WalletTransactionRefund,
			Description: fmt.Sprintf("gateway refund for order %d", order.ID),
			OrderID:     &order.ID,
		})
		if applyErr != nil {
			return applyErr //nolint:wrapcheck
		}
	}

	walletPaid, walletPaidErr := walletRepo.SumByOrderAndType(ctx, order.ID, domain.WalletTransactionPayment)
	if walletPaidErr != nil {
		return walletPaidErr //nolint:wrapcheck
	}
	if walletPaid.IsNegative() {
		_, applyErr := walletRepo.Apply(ctx, repoargs.WalletTransactionCreate{
			CustomerID:  order.CustomerID,
			Amount:      walletPaid.Neg(),
			Type:        domain.WalletTransactionRefund,
			Description: fmt.Sprintf("wallet refund for order %d", order.ID),
			OrderID:     &order.ID,
		})
		if applyErr != nil {
			return applyErr //nolint:wrapcheck
		}
	}
	return nil
}

// Delete удаляет заказ вместе с позициями и платежом. Разрешено только для
// отмененных заказов и для завершенных старше месяца; леджер кошелька при
// этом не трогается, история движений средств остается.
func (o *OrderService) Delete(ctx context.Context, orderID int64) error {
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		order, orderErr := orderRepo.GetByIDForUpdate(c, orderID)
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}
		switch {
		case order.Status == domain.OrderStatusCancelled:
		case order.Status == domain.OrderStatusCompleted && o.now().Sub(order.CreatedAt) > deleteRetention:
		default:
			return fmt.Errorf("%w: order %d has status %s", domain.ErrDeletionNotAllowed, orderID, order.Status)
		}
		return orderRepo.Delete(c, orderID) //nolint:wrapcheck
	})
	if txErr != nil {
		return fmt.Errorf("deleting order %d: %w", orderID, txErr)
	}
	return nil
}
