package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testSecret = "test-hash-secret"

type VNPayTestSuite struct {
	suite.Suite
	client *Client
	loc    *time.Location
}

func TestVNPaySuite(t *testing.T) {
	suite.Run(t, new(VNPayTestSuite))
}

func (s *VNPayTestSuite) SetupTest() {
	s.loc = time.FixedZone("ICT", 7*3600)
	s.client = New(Config{
		BaseURL:    "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		TmnCode:    "TESTTMN",
		HashSecret: testSecret,
		ReturnURL:  "http://localhost:8080/api/payment/vnpay-return",
	}, s.loc)
	s.client.now = func() time.Time {
		return time.Date(2024, 3, 15, 14, 30, 45, 0, s.loc)
	}
}

// sign подписывает параметры так же, как это делает шлюз: Encode сортирует
// ключи и энкодит пары, что совпадает с канонической формой провайдера.
func (s *VNPayTestSuite) sign(values url.Values) string {
	return hmacSHA512(testSecret, values.Encode())
}

func (s *VNPayTestSuite) callbackQuery(orderID, responseCode string) url.Values {
	values := url.Values{}
	values.Set("vnp_TxnRef", orderID)
	values.Set("vnp_TransactionNo", "14422574")
	values.Set("vnp_ResponseCode", responseCode)
	values.Set("vnp_Amount", "17795000")
	values.Set("vnp_TmnCode", "TESTTMN")
	values.Set("vnp_SecureHash", s.sign(values))
	return values
}

func (s *VNPayTestSuite) TestBuildPaymentURL() {
	rawURL, err := s.client.BuildPaymentURL(42, decimal.NewFromInt(177_950), "Thanh toan don hang 42", "10.0.0.1")
	s.Require().NoError(err)

	parsed, parseErr := url.Parse(rawURL)
	s.Require().NoError(parseErr)
	query := parsed.Query()

	// сумма передается умноженной на 100
	s.Equal("17795000", query.Get("vnp_Amount"))
	s.Equal("42", query.Get("vnp_TxnRef"))
	s.Equal("2.1.0", query.Get("vnp_Version"))
	s.Equal("pay", query.Get("vnp_Command"))
	s.Equal("VND", query.Get("vnp_CurrCode"))
	s.Equal("20240315143045", query.Get("vnp_CreateDate"))
	s.Equal("10.0.0.1", query.Get("vnp_IpAddr"))
	s.NotEmpty(query.Get("vnp_SecureHash"))

	// подпись считается по каноническому набору без самой подписи
	suppliedHash := query.Get("vnp_SecureHash")
	query.Del("vnp_SecureHash")
	s.Equal(hmacSHA512(testSecret, query.Encode()), suppliedHash)
}

func (s *VNPayTestSuite) TestBuildPaymentURLSortedParams() {
	rawURL, err := s.client.BuildPaymentURL(7, decimal.NewFromInt(100_000), "info", "127.0.0.1")
	s.Require().NoError(err)

	rawQuery := rawURL[strings.Index(rawURL, "?")+1:]
	pairs := strings.Split(rawQuery, "&")
	keys := make([]string, len(pairs))
	for i, pair := range pairs {
		keys[i] = pair[:strings.Index(pair, "=")]
	}
	for i := 1; i < len(keys); i++ {
		s.LessOrEqual(keys[i-1], keys[i])
	}
}

func (s *VNPayTestSuite) TestBuildPaymentURLNonPositiveAmount() {
	_, err := s.client.BuildPaymentURL(1, decimal.Zero, "info", "127.0.0.1")
	s.Error(err)

	_, err = s.client.BuildPaymentURL(1, decimal.NewFromInt(-5), "info", "127.0.0.1")
	s.Error(err)
}

func (s *VNPayTestSuite) TestVerifyCallback() {
	result, err := s.client.VerifyCallback(s.callbackQuery("42", "00"))
	s.Require().NoError(err)
	s.EqualValues(42, result.OrderID)
	s.Equal("14422574", result.TransactionID)
	s.Equal("00", result.ResponseCode)
}

func (s *VNPayTestSuite) TestVerifyCallbackUppercaseHash() {
	values := s.callbackQuery("42", "00")
	values.Set("vnp_SecureHash", strings.ToUpper(values.Get("vnp_SecureHash")))

	result, err := s.client.VerifyCallback(values)
	s.Require().NoError(err)
	s.EqualValues(42, result.OrderID)
}

func (s *VNPayTestSuite) TestVerifyCallbackTamperedParam() {
	values := s.callbackQuery("42", "00")
	values.Set("vnp_Amount", "1")

	_, err := s.client.VerifyCallback(values)
	s.ErrorIs(err, domain.ErrSignatureMismatch)
}

func (s *VNPayTestSuite) TestVerifyCallbackMissingHash() {
	values := s.callbackQuery("42", "00")
	values.Del("vnp_SecureHash")

	_, err := s.client.VerifyCallback(values)
	s.ErrorIs(err, domain.ErrSignatureMismatch)
}

func (s *VNPayTestSuite) TestVerifyCallbackRejectedCode() {
	_, err := s.client.VerifyCallback(s.callbackQuery("42", "24"))

	var rejectedErr *RejectedError
	s.Require().ErrorAs(err, &rejectedErr)
	s.EqualValues(42, rejectedErr.OrderID)
	s.Equal("24", rejectedErr.ResponseCode)
}

func (s *VNPayTestSuite) TestVerifyCallbackBadTxnRef() {
	_, err := s.client.VerifyCallback(s.callbackQuery("not-a-number", "00"))
	s.Error(err)
	s.NotErrorIs(err, domain.ErrSignatureMismatch)
}
