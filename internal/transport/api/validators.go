package api

import (
	"fmt"
	"strconv"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateMaxBytes в отличие от тэга max, который считает руны, проверяет
// длину поля в байтах. Лимиты колонок в базе байтовые.
func validateMaxBytes(fl validator.FieldLevel) bool {
	maxBytes, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return len(str) <= maxBytes
}

// validatePaymentMethod пропускает только методы оплаты, доступные на
// чекауте. Метод wallet клиент не выбирает, он назначается расчетом.
func validatePaymentMethod(fl validator.FieldLevel) bool {
	method := domain.PaymentMethod(fl.Field().String())
	return method == domain.PaymentMethodCOD || method == domain.PaymentMethodVNPay
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine")
	}
	if err := v.RegisterValidation("max_bytes", validateMaxBytes); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	if err := v.RegisterValidation("payment_method", validatePaymentMethod); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
