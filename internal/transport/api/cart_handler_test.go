package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/logger"
	"github.com/fsdevblog/groph-food/internal/transport/api/middlewares"
	"github.com/fsdevblog/groph-food/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-food/internal/transport/api/testutils"
	"github.com/fsdevblog/groph-food/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CartHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCartService *mocks.MockCartServicer
	jwtSecret       []byte
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockCartService = mocks.NewMockCartServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		CartService:  s.mockCartService,
		JWTSecretKey: s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router
}

// TestShowAnonymousSession запрос без авторизации получает корзину анонимной
// сессии, токен сессии возвращается в ответном заголовке.
func (s *CartHandlerTestSuite) TestShowAnonymousSession() {
	sessionToken := "5f0c2a1e-3d44-4f61-9f5e-0a8b7c6d5e4f"

	s.mockCartService.EXPECT().
		Get(gomock.Any(), domain.AnonymousOwner(sessionToken)).
		Return(&domain.Cart{
			ID: 3,
			Items: []domain.CartItem{
				{MenuItemID: 11, Quantity: 2, UnitPrice: decimal.NewFromInt(75_000)},
			},
		}, nil).Times(1)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + CartRoute,
	}, testutils.WithHeader(middlewares.SessionTokenHeader, sessionToken))
	s.Require().NoError(err)

	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()

	s.Equal(http.StatusOK, res.StatusCode)
	s.Equal(sessionToken, res.Header.Get(middlewares.SessionTokenHeader))

	var body CartResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.EqualValues(3, body.ID)
	s.Require().Len(body.Items, 1)
	s.True(body.Items[0].LineTotal.Equal(decimal.NewFromInt(150_000)))
	s.True(body.Subtotal.Equal(decimal.NewFromInt(150_000)))
}

// TestShowIssuesSessionToken запрос без токена получает новый токен сессии.
func (s *CartHandlerTestSuite) TestShowIssuesSessionToken() {
	s.mockCartService.EXPECT().
		Get(gomock.Any(), gomock.AssignableToTypeOf(domain.CartOwner{})).
		DoAndReturn(func(_ context.Context, owner domain.CartOwner) (*domain.Cart, error) {
			s.False(owner.Authenticated())
			token, ok := owner.SessionToken()
			s.True(ok)
			s.NotEmpty(token)
			return &domain.Cart{ID: 4}, nil
		}).Times(1)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + CartRoute,
	})
	s.Require().NoError(err)

	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()

	s.Equal(http.StatusOK, res.StatusCode)
	s.NotEmpty(res.Header.Get(middlewares.SessionTokenHeader))
}

func (s *CartHandlerTestSuite) TestAddItem() {
	var currentUserID int64 = 1

	jwtToken, jwtErr := tokens.GenerateUserJWT(currentUserID, false, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	s.mockCartService.EXPECT().
		AddItem(gomock.Any(), domain.AuthenticatedOwner(currentUserID), int64(11), int32(2), decimal.NewFromInt(75_000)).
		Return(&domain.Cart{
			ID: 5,
			Items: []domain.CartItem{
				{MenuItemID: 11, Quantity: 2, UnitPrice: decimal.NewFromInt(75_000)},
			},
		}, nil).Times(1)

	validPayload := []byte(`{"menu_item_id": 11, "quantity": 2, "unit_price": "75000"}`)
	invalidPayload := []byte(`{"menu_item_id": 11, "quantity": 0, "unit_price": "75000"}`)

	cases := []struct {
		name       string
		payload    []byte
		wantStatus int
	}{
		{
			name:       "all ok",
			payload:    validPayload,
			wantStatus: http.StatusOK,
		}, {
			name:       "zero quantity",
			payload:    invalidPayload,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + CartItemsRoute,
				Body:   bytes.NewReader(t.payload),
			},
				testutils.WithHeader("Content-Type", "application/json"),
				testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", jwtToken)),
			)
			s.Require().NoError(err)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *CartHandlerTestSuite) TestRemoveItemBadID() {
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodDelete,
		URL:    RouteGroup + "/cart/items/abc",
	})
	s.Require().NoError(err)

	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()

	s.Equal(http.StatusBadRequest, res.StatusCode)
}
