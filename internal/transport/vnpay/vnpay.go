// Package vnpay строит подписанные платежные урлы VNPay и проверяет подписи
// входящих колбеков. Построение урла - чистое вычисление без сетевых вызовов;
// редирект выполняет вызывающая сторона.
package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	apiVersion   = "2.1.0"
	commandPay   = "pay"
	currencyCode = "VND"
	locale       = "vn"
	orderType    = "other"

	// SuccessResponseCode - код успешной оплаты в ответе шлюза.
	SuccessResponseCode = "00"

	createDateLayout = "20060102150405"
)

// Config - реквизиты мерчанта. Инжектируются при создании клиента, никакого
// глобального состояния.
type Config struct {
	BaseURL    string
	TmnCode    string
	HashSecret string
	ReturnURL  string
}

type Client struct {
	conf Config
	loc  *time.Location
	now  func() time.Time
}

// New создает клиента шлюза. Временная зона нужна для vnp_CreateDate: шлюз
// ожидает локальное время региона мерчанта.
func New(conf Config, loc *time.Location) *Client {
	return &Client{
		conf: conf,
		loc:  loc,
		now:  time.Now,
	}
}

// BuildPaymentURL собирает канонический набор параметров, подписывает его
// HMAC-SHA512 и возвращает урл для редиректа плательщика.
//
// Канонизация: ключи сортируются побайтово по возрастанию, каждая пара
// url-энкодится как key=value, пары соединяются "&". Подпись считается по
// этой строке; hex-дайджест добавляется параметром vnp_SecureHash.
func (c *Client) BuildPaymentURL(orderID int64, amount decimal.Decimal, orderInfo, clientIP string) (string, error) {
	if !amount.IsPositive() {
		return "", errors.Errorf("vnpay: non-positive amount %s for order %d", amount, orderID)
	}

	params := map[string]string{
		"vnp_Version": apiVersion,
		"vnp_Command": commandPay,
		"vnp_TmnCode": c.conf.TmnCode,
		// сумма передается умноженной на 100 - соглашение провайдера
		"vnp_Amount":     amount.Mul(decimal.NewFromInt(100)).Truncate(0).String(),
		"vnp_CreateDate": c.now().In(c.loc).Format(createDateLayout),
		"vnp_CurrCode":   currencyCode,
		"vnp_IpAddr":     clientIP,
		"vnp_Locale":     locale,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  orderType,
		"vnp_ReturnUrl":  c.conf.ReturnURL,
		"vnp_TxnRef":     strconv.FormatInt(orderID, 10),
	}

	canonical := canonicalize(params)
	secureHash := hmacSHA512(c.conf.HashSecret, canonical)

	return c.conf.BaseURL + "?" + canonical + "&vnp_SecureHash=" + secureHash, nil
}

// CallbackResult - разобранный и проверенный колбек шлюза.
type CallbackResult struct {
	OrderID       int64
	TransactionID string
	ResponseCode  string
}

// VerifyCallback проверяет подпись входящего колбека и код ответа шлюза.
// Поля самой подписи исключаются из набора перед пересчетом; сравнение
// хешей регистронезависимое. Несовпадение подписи - domain.ErrSignatureMismatch,
// код ответа отличный от SuccessResponseCode - RejectedError. Частичного
// успеха не бывает.
func (c *Client) VerifyCallback(query url.Values) (*CallbackResult, error) {
	params := make(map[string]string)
	for key := range query {
		if strings.HasPrefix(key, "vnp_") && query.Get(key) != "" {
			params[key] = query.Get(key)
		}
	}

	suppliedHash := params["vnp_SecureHash"]
	if suppliedHash == "" {
		return nil, domain.ErrSignatureMismatch
	}
	delete(params, "vnp_SecureHash")
	delete(params, "vnp_SecureHashType")

	expectedHash := hmacSHA512(c.conf.HashSecret, canonicalize(params))
	if !strings.EqualFold(expectedHash, suppliedHash) {
		return nil, domain.ErrSignatureMismatch
	}

	orderID, parseErr := strconv.ParseInt(params["vnp_TxnRef"], 10, 64)
	if parseErr != nil {
		return nil, errors.Wrapf(parseErr, "vnpay: parsing vnp_TxnRef %q", params["vnp_TxnRef"])
	}

	result := &CallbackResult{
		OrderID:       orderID,
		TransactionID: params["vnp_TransactionNo"],
		ResponseCode:  params["vnp_ResponseCode"],
	}

	if result.ResponseCode != SuccessResponseCode {
		return nil, NewRejectedError(orderID, result.ResponseCode)
	}
	return result, nil
}

func canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, key := range keys {
		pairs[i] = url.QueryEscape(key) + "=" + url.QueryEscape(params[key])
	}
	return strings.Join(pairs, "&")
}

func hmacSHA512(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
