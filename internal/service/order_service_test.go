package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/internal/service/mocks"
	"github.com/fsdevblog/groph-food/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-food/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockOrderRepo   *mocks.MockOrderRepository
	mockPaymentRepo *mocks.MockPaymentRepository
	mockWalletRepo  *mocks.MockWalletRepository
	mockTier        *mocks.MockTierClassifier
	orderService    *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockPaymentRepo = mocks.NewMockPaymentRepository(s.mockCtrl)
	s.mockWalletRepo = mocks.NewMockWalletRepository(s.mockCtrl)
	s.mockTier = mocks.NewMockTierClassifier(s.mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.PaymentRepoName)).Return(s.mockPaymentRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.WalletRepoName)).Return(s.mockWalletRepo, nil).AnyTimes()

	orderService, servErr := NewOrderService(s.mockUOW, s.mockTier)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *OrderServiceTestSuite) TestGetByID() {
	order := &domain.Order{ID: 42, CustomerID: 5, Status: domain.OrderStatusPreparing}
	payment := &domain.Payment{ID: 7, OrderID: 42, Method: domain.PaymentMethodCOD}

	s.mockOrderRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(order, nil)
	s.mockPaymentRepo.EXPECT().GetByOrderID(gomock.Any(), int64(42)).Return(payment, nil)

	details, err := s.orderService.GetByID(context.Background(), 42)
	s.Require().NoError(err)
	s.Equal(order, details.Order)
	s.Equal(payment, details.Payment)
}

// TestGetByIDWithoutPayment заказ без записи платежа отдается как есть.
func (s *OrderServiceTestSuite) TestGetByIDWithoutPayment() {
	order := &domain.Order{ID: 42, CustomerID: 5}

	s.mockOrderRepo.EXPECT().GetByID(gomock.Any(), int64(42)).Return(order, nil)
	s.mockPaymentRepo.EXPECT().GetByOrderID(gomock.Any(), int64(42)).
		Return(nil, domain.ErrRecordNotFound)

	details, err := s.orderService.GetByID(context.Background(), 42)
	s.Require().NoError(err)
	s.Equal(order, details.Order)
	s.Nil(details.Payment)
}

func (s *OrderServiceTestSuite) TestUpdateStatus() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{ID: 42, CustomerID: 5, Status: domain.OrderStatusPreparing}, nil)
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(42), domain.OrderStatusDelivering).
		Return(nil)

	err := s.orderService.UpdateStatus(context.Background(), 42, domain.OrderStatusDelivering)
	s.NoError(err)
}

// TestUpdateStatusCompleted завершение заказа пересчитывает уровень клиента
// в той же транзакции.
func (s *OrderServiceTestSuite) TestUpdateStatusCompleted() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{ID: 42, CustomerID: 5, Status: domain.OrderStatusDelivering}, nil)
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(42), domain.OrderStatusCompleted).
		Return(nil)
	s.mockTier.EXPECT().ClassifyWithin(gomock.Any(), s.mockTX, int64(5)).
		Return(&domain.TierInfo{Tier: domain.TierSilver}, nil)

	err := s.orderService.UpdateStatus(context.Background(), 42, domain.OrderStatusCompleted)
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestUpdateStatusInvalidTransition() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusAwaitingConfirmation}, nil)

	err := s.orderService.UpdateStatus(context.Background(), 42, domain.OrderStatusCompleted)
	var transitionErr *domain.InvalidTransitionError
	s.ErrorAs(err, &transitionErr)
	s.Equal(domain.OrderStatusAwaitingConfirmation, transitionErr.From)
	s.Equal(domain.OrderStatusCompleted, transitionErr.To)
}

func (s *OrderServiceTestSuite) TestUpdateStatusUnknown() {
	err := s.orderService.UpdateStatus(context.Background(), 42, domain.OrderStatusType("shipped"))
	s.ErrorIs(err, domain.ErrValidation)
}

// TestCancelRefunds отмена возвращает обе части: сумму завершенного платежа
// шлюза и списанное с кошелька при чекауте.
func (s *OrderServiceTestSuite) TestCancelRefunds() {
	order := &domain.Order{ID: 42, CustomerID: 5, Status: domain.OrderStatusPreparing}

	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).Return(order, nil)
	s.mockWalletRepo.EXPECT().
		SumByOrderAndType(gomock.Any(), int64(42), domain.WalletTransactionRefund).
		Return(decimal.Zero, nil)
	s.mockPaymentRepo.EXPECT().GetByOrderID(gomock.Any(), int64(42)).
		Return(&domain.Payment{
			ID:      7,
			OrderID: 42,
			Method:  domain.PaymentMethodVNPay,
			Status:  domain.PaymentStatusCompleted,
			Amount:  decimal.NewFromInt(177_950),
		}, nil)
	s.mockWalletRepo.EXPECT().
		Apply(gomock.Any(), gomock.AssignableToTypeOf(repoargs.WalletTransactionCreate{})).
		DoAndReturn(func(_ context.Context, args repoargs.WalletTransactionCreate) (*domain.WalletTransaction, error) {
			s.True(args.Amount.Equal(decimal.NewFromInt(177_950)))
			s.Equal(domain.WalletTransactionRefund, args.Type)
			return &domain.WalletTransaction{ID: 1}, nil
		})
	s.mockWalletRepo.EXPECT().
		SumByOrderAndType(gomock.Any(), int64(42), domain.WalletTransactionPayment).
		Return(decimal.NewFromInt(-50_000), nil)
	s.mockWalletRepo.EXPECT().
		Apply(gomock.Any(), gomock.AssignableToTypeOf(repoargs.WalletTransactionCreate{})).
		DoAndReturn(func(_ context.Context, args repoargs.WalletTransactionCreate) (*domain.WalletTransaction, error) {
			s.True(args.Amount.Equal(decimal.NewFromInt(50_000)))
			s.Equal(domain.WalletTransactionRefund, args.Type)
			return &domain.WalletTransaction{ID: 2}, nil
		})
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(42), domain.OrderStatusCancelled).
		Return(nil)
	s.mockOrderRepo.EXPECT().
		AppendNotes(gomock.Any(), int64(42), "[cancel reason: changed my mind]").
		Return(nil)

	err := s.orderService.Cancel(context.Background(), 42, "changed my mind")
	s.NoError(err)
}

// TestCancelAlreadyRefunded при наличии возвратов в леджере повторных
// зачислений не происходит.
func (s *OrderServiceTestSuite) TestCancelAlreadyRefunded() {
	order := &domain.Order{ID: 42, CustomerID: 5, Status: domain.OrderStatusPreparing}

	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).Return(order, nil)
	s.mockWalletRepo.EXPECT().
		SumByOrderAndType(gomock.Any(), int64(42), domain.WalletTransactionRefund).
		Return(decimal.NewFromInt(227_950), nil)
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), int64(42), domain.OrderStatusCancelled).
		Return(nil)

	err := s.orderService.Cancel(context.Background(), 42, "")
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestCancelTerminalOrder() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusCancelled}, nil)

	err := s.orderService.Cancel(context.Background(), 42, "")
	var transitionErr *domain.InvalidTransitionError
	s.ErrorAs(err, &transitionErr)
}

func (s *OrderServiceTestSuite) TestDeleteCancelled() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusCancelled}, nil)
	s.mockOrderRepo.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil)

	err := s.orderService.Delete(context.Background(), 42)
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestDeleteCompletedRecent() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{
			ID:        42,
			Status:    domain.OrderStatusCompleted,
			CreatedAt: time.Now().Add(-24 * time.Hour),
		}, nil)

	err := s.orderService.Delete(context.Background(), 42)
	s.ErrorIs(err, domain.ErrDeletionNotAllowed)
}

func (s *OrderServiceTestSuite) TestDeleteCompletedOld() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{
			ID:        42,
			Status:    domain.OrderStatusCompleted,
			CreatedAt: time.Now().Add(-45 * 24 * time.Hour),
		}, nil)
	s.mockOrderRepo.EXPECT().Delete(gomock.Any(), int64(42)).Return(nil)

	err := s.orderService.Delete(context.Background(), 42)
	s.NoError(err)
}

func (s *OrderServiceTestSuite) TestDeleteActiveOrder() {
	s.mockOrderRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(42)).
		Return(&domain.Order{ID: 42, Status: domain.OrderStatusDelivering}, nil)

	err := s.orderService.Delete(context.Background(), 42)
	s.ErrorIs(err, domain.ErrDeletionNotAllowed)
}
