package domain

// CartOwner - закрытый тип владельца корзины: либо авторизованный клиент, либо
// анонимная сессия. Разрешается один раз на запрос, чтобы не плодить
// дубликаты корзин между двумя путями идентификации.
type CartOwner struct {
	customerID   int64
	sessionToken string
}

func AuthenticatedOwner(customerID int64) CartOwner {
	return CartOwner{customerID: customerID}
}

func AnonymousOwner(sessionToken string) CartOwner {
	return CartOwner{sessionToken: sessionToken}
}

func (o CartOwner) Authenticated() bool {
	return o.customerID != 0
}

// CustomerID возвращает id клиента. Для анонимного владельца второе значение
// false.
func (o CartOwner) CustomerID() (int64, bool) {
	return o.customerID, o.customerID != 0
}

func (o CartOwner) SessionToken() (string, bool) {
	return o.sessionToken, o.customerID == 0 && o.sessionToken != ""
}

func (o CartOwner) Zero() bool {
	return o.customerID == 0 && o.sessionToken == ""
}
