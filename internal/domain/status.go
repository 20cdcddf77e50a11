package domain

type OrderStatusType string

const (
	OrderStatusAwaitingConfirmation OrderStatusType = "awaiting_confirmation"
	OrderStatusPreparing            OrderStatusType = "preparing"
	OrderStatusDelivering           OrderStatusType = "delivering"
	OrderStatusCompleted            OrderStatusType = "completed"
	OrderStatusCancelled            OrderStatusType = "cancelled"
)

// orderTransitions описывает машину статусов заказа. Отмена доступна из любого
// нетерминального статуса, completed и cancelled - терминальные.
var orderTransitions = map[OrderStatusType][]OrderStatusType{
	OrderStatusAwaitingConfirmation: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:            {OrderStatusDelivering, OrderStatusCancelled},
	OrderStatusDelivering:           {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted:            {},
	OrderStatusCancelled:            {},
}

func (s OrderStatusType) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatusType) Terminal() bool {
	return len(orderTransitions[s]) == 0 && s.Valid()
}

// CanTransition сообщает, разрешен ли переход из статуса s в статус next.
func (s OrderStatusType) CanTransition(next OrderStatusType) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
