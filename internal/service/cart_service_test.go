package service

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/internal/service/mocks"
	"github.com/fsdevblog/groph-food/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-food/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockCartRepo *mocks.MockCartRepository
	cartService  *CartService
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

func (s *CartServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockCartRepo = mocks.NewMockCartRepository(s.mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.CartRepoName)).
		Return(s.mockCartRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CartRepoName)).
		Return(s.mockCartRepo, nil).AnyTimes()

	cartService, servErr := NewCartService(s.mockUOW)
	s.Require().NoError(servErr)
	s.cartService = cartService
}

func (s *CartServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *CartServiceTestSuite) TestGet() {
	owner := domain.AnonymousOwner(gofakeit.UUID())
	cart := &domain.Cart{ID: 1}

	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).Return(cart, nil)

	got, err := s.cartService.Get(context.Background(), owner)
	s.Require().NoError(err)
	s.Equal(cart, got)
}

func (s *CartServiceTestSuite) TestGetZeroOwner() {
	_, err := s.cartService.Get(context.Background(), domain.CartOwner{})
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *CartServiceTestSuite) TestAddItem() {
	owner := domain.AuthenticatedOwner(int64(gofakeit.Number(1, 1000)))
	price := decimal.NewFromInt(75_000)

	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{ID: 1}, nil)
	s.mockCartRepo.EXPECT().
		UpsertItem(gomock.Any(), int64(1), repoargs.CartItemUpsert{
			MenuItemID: 11,
			Quantity:   2,
			UnitPrice:  price,
		}).
		Return(nil)
	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{
			ID:    1,
			Items: []domain.CartItem{{MenuItemID: 11, Quantity: 2, UnitPrice: price}},
		}, nil)

	cart, err := s.cartService.AddItem(context.Background(), owner, 11, 2, price)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 1)
	s.EqualValues(2, cart.Items[0].Quantity)
}

func (s *CartServiceTestSuite) TestAddItemInvalidArgs() {
	owner := domain.AuthenticatedOwner(1)

	_, err := s.cartService.AddItem(context.Background(), owner, 11, 0, decimal.NewFromInt(100))
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.cartService.AddItem(context.Background(), owner, 11, 1, decimal.NewFromInt(-100))
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.cartService.AddItem(context.Background(), domain.CartOwner{}, 11, 1, decimal.NewFromInt(100))
	s.ErrorIs(err, domain.ErrValidation)
}

func (s *CartServiceTestSuite) TestUpdateItem() {
	owner := domain.AnonymousOwner(gofakeit.UUID())

	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{ID: 2}, nil)
	s.mockCartRepo.EXPECT().UpdateItemQuantity(gomock.Any(), int64(2), int64(11), int32(5)).
		Return(nil)
	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{
			ID:    2,
			Items: []domain.CartItem{{MenuItemID: 11, Quantity: 5}},
		}, nil)

	cart, err := s.cartService.UpdateItem(context.Background(), owner, 11, 5)
	s.Require().NoError(err)
	s.EqualValues(5, cart.Items[0].Quantity)
}

func (s *CartServiceTestSuite) TestUpdateItemNotFound() {
	owner := domain.AuthenticatedOwner(1)

	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{ID: 2}, nil)
	s.mockCartRepo.EXPECT().UpdateItemQuantity(gomock.Any(), int64(2), int64(99), int32(5)).
		Return(domain.ErrRecordNotFound)

	_, err := s.cartService.UpdateItem(context.Background(), owner, 99, 5)
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *CartServiceTestSuite) TestRemoveItem() {
	owner := domain.AuthenticatedOwner(1)

	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{ID: 2}, nil)
	s.mockCartRepo.EXPECT().RemoveItem(gomock.Any(), int64(2), int64(11)).Return(nil)
	s.mockCartRepo.EXPECT().GetOrCreateByOwner(gomock.Any(), owner).
		Return(&domain.Cart{ID: 2}, nil)

	cart, err := s.cartService.RemoveItem(context.Background(), owner, 11)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}
