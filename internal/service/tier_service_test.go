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

type TierServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockCustomerRepo *mocks.MockCustomerRepository
	mockOrderRepo    *mocks.MockOrderRepository
	loc              *time.Location
	tierService      *TierService
}

func TestTierServiceSuite(t *testing.T) {
	suite.Run(t, new(TierServiceTestSuite))
}

func (s *TierServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockCustomerRepo = mocks.NewMockCustomerRepository(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.loc = time.FixedZone("ICT", 7*3600)

	// Прокидываем транзакцию: колбек получает mockTX.
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CustomerRepoName)).
		Return(s.mockCustomerRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	s.tierService = NewTierService(s.mockUOW, s.loc)
	s.tierService.now = func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, s.loc)
	}
}

func (s *TierServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *TierServiceTestSuite) TestClassify() {
	type tcase struct {
		name         string
		spend        decimal.Decimal
		wantTier     domain.TierType
		wantDiscount int64
		wantNext     *domain.TierType
		wantToNext   decimal.Decimal
	}

	silver := domain.TierSilver
	gold := domain.TierGold
	diamond := domain.TierDiamond

	cases := []tcase{
		{
			name:         "below silver threshold",
			spend:        decimal.NewFromInt(999_999),
			wantTier:     domain.TierBase,
			wantDiscount: 0,
			wantNext:     &silver,
			wantToNext:   decimal.NewFromInt(1),
		}, {
			name:         "exactly silver threshold",
			spend:        decimal.NewFromInt(1_000_000),
			wantTier:     domain.TierSilver,
			wantDiscount: 3,
			wantNext:     &gold,
			wantToNext:   decimal.NewFromInt(2_000_000),
		}, {
			name:         "gold",
			spend:        decimal.NewFromInt(3_500_000),
			wantTier:     domain.TierGold,
			wantDiscount: 5,
			wantNext:     &diamond,
			wantToNext:   decimal.NewFromInt(1_500_000),
		}, {
			name:         "diamond has no next tier",
			spend:        decimal.NewFromInt(9_000_000),
			wantTier:     domain.TierDiamond,
			wantDiscount: 10,
			wantNext:     nil,
		},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			customerID := int64(77)
			monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, s.loc)

			s.mockCustomerRepo.EXPECT().GetByIDForUpdate(gomock.Any(), customerID).
				Return(&domain.Customer{ID: customerID}, nil)
			s.mockOrderRepo.EXPECT().SumCompletedForCustomerSince(gomock.Any(), customerID, monthStart).
				Return(c.spend, nil)
			s.mockCustomerRepo.EXPECT().
				UpdateTier(gomock.Any(), gomock.AssignableToTypeOf(repoargs.TierUpdate{})).
				DoAndReturn(func(_ context.Context, args repoargs.TierUpdate) error {
					s.Equal(customerID, args.CustomerID)
					s.Equal(c.wantTier, args.Tier)
					s.True(args.MonthlySpend.Equal(c.spend))
					return nil
				})

			info, err := s.tierService.Classify(context.Background(), customerID)
			s.Require().NoError(err)
			s.Equal(c.wantTier, info.Tier)
			s.Equal(c.wantDiscount, info.DiscountPct)
			s.True(info.MonthlySpend.Equal(c.spend))
			if c.wantNext == nil {
				s.Nil(info.NextTier)
			} else {
				s.Require().NotNil(info.NextTier)
				s.Equal(*c.wantNext, *info.NextTier)
				s.True(info.AmountToNextTier.Equal(c.wantToNext),
					"amount to next tier: want %s got %s", c.wantToNext, info.AmountToNextTier)
			}
		})
	}
}

func (s *TierServiceTestSuite) TestClassifyCustomerNotFound() {
	s.mockCustomerRepo.EXPECT().GetByIDForUpdate(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.tierService.Classify(context.Background(), 404)
	s.ErrorIs(err, domain.ErrRecordNotFound)
}
