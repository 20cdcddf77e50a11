package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/logger"
	"github.com/fsdevblog/groph-food/internal/service"
	"github.com/fsdevblog/groph-food/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-food/internal/transport/api/testutils"
	"github.com/fsdevblog/groph-food/internal/transport/api/tokens"
	"github.com/fsdevblog/groph-food/internal/transport/vnpay"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockCheckoutService *mocks.MockCheckoutServicer
	jwtSecret           []byte
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockCheckoutService = mocks.NewMockCheckoutServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:          logger.New(os.Stdout),
		CheckoutService: s.mockCheckoutService,
		JWTSecretKey:    s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router
}

func (s *CheckoutHandlerTestSuite) TestCreate() {
	var currentUserID int64 = 1

	jwtToken, jwtErr := tokens.GenerateUserJWT(currentUserID, false, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	validPayload := []byte(`{"delivery_address": "12 Nguyen Trai", "payment_method": "vnpay"}`)
	noAddressPayload := []byte(`{"payment_method": "vnpay"}`)

	// Моки
	s.mockCheckoutService.EXPECT().
		Checkout(gomock.Any(), gomock.AssignableToTypeOf(service.CheckoutArgs{})).
		DoAndReturn(func(_ context.Context, args service.CheckoutArgs) (*service.CheckoutResult, error) {
			s.Equal(currentUserID, args.CustomerID)
			s.Equal("12 Nguyen Trai", args.DeliveryAddress)
			s.Equal(domain.PaymentMethodVNPay, args.Method)
			return &service.CheckoutResult{
				Order: &domain.Order{
					ID:          42,
					CustomerID:  currentUserID,
					TotalAmount: decimal.NewFromInt(227_950),
				},
				Payment: &domain.Payment{
					ID:      7,
					OrderID: 42,
					Method:  domain.PaymentMethodVNPay,
					Amount:  decimal.NewFromInt(177_950),
					Status:  domain.PaymentStatusPending,
				},
				WalletUsed:  decimal.NewFromInt(50_000),
				RedirectURL: "https://gateway.example/pay?vnp_TxnRef=42",
			}, nil
		}).Times(1)

	cases := []struct {
		name       string
		payload    []byte
		wantStatus int
		jwtToken   string
	}{
		{
			name:       "all ok",
			payload:    validPayload,
			wantStatus: http.StatusCreated,
			jwtToken:   jwtToken,
		}, {
			name:       "missing address",
			payload:    noAddressPayload,
			wantStatus: http.StatusUnprocessableEntity,
			jwtToken:   jwtToken,
		}, {
			name:       "not authorized",
			payload:    validPayload,
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "malformed body",
			payload:    []byte("{"),
			wantStatus: http.StatusBadRequest,
			jwtToken:   jwtToken,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + CheckoutRoute,
				Body:   bytes.NewReader(t.payload),
			}
			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json"),
			}
			if t.jwtToken != "" {
				authHeader := fmt.Sprintf("Bearer %s", t.jwtToken)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", authHeader))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)
			s.Require().NoError(err)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusCreated {
				var body CheckoutResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.EqualValues(42, body.OrderID)
				s.True(body.TotalAmount.Equal(decimal.NewFromInt(227_950)))
				s.True(body.WalletUsed.Equal(decimal.NewFromInt(50_000)))
				s.Equal("vnpay", body.Method)
				s.Equal("https://gateway.example/pay?vnp_TxnRef=42", body.RedirectURL)
			}
		})
	}
}

func (s *CheckoutHandlerTestSuite) TestGatewayReturn() {
	transactionID := "14422574"
	s.mockCheckoutService.EXPECT().
		ConfirmGatewayCallback(gomock.Any(), gomock.AssignableToTypeOf(url.Values{})).
		DoAndReturn(func(_ context.Context, query url.Values) (*domain.Payment, error) {
			switch query.Get("vnp_TxnRef") {
			case "42":
				return &domain.Payment{
					ID:            7,
					OrderID:       42,
					Status:        domain.PaymentStatusCompleted,
					TransactionID: &transactionID,
				}, nil
			case "43":
				return nil, vnpay.NewRejectedError(43, "24")
			default:
				return nil, domain.ErrSignatureMismatch
			}
		}).Times(3)

	cases := []struct {
		name       string
		query      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "payment completed",
			query:      "vnp_TxnRef=42",
			wantStatus: http.StatusOK,
			wantBody:   "completed",
		}, {
			name:       "payment rejected by gateway",
			query:      "vnp_TxnRef=43",
			wantStatus: http.StatusOK,
			wantBody:   "failed",
		}, {
			name:       "tampered signature",
			query:      "vnp_TxnRef=44",
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + GatewayReturnRoute + "?" + t.query,
			})
			s.Require().NoError(err)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantBody != "" {
				var body map[string]any
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(t.wantBody, body["status"])
			}
		})
	}
}
