package vnpay

import "fmt"

// RejectedError - колбек с валидной подписью, но неуспешным кодом ответа
// шлюза. Платеж остается pending.
type RejectedError struct {
	OrderID      int64
	ResponseCode string
}

func NewRejectedError(orderID int64, responseCode string) error {
	return &RejectedError{OrderID: orderID, ResponseCode: responseCode}
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("vnpay: payment for order %d rejected with response code %q", e.OrderID, e.ResponseCode)
}
