package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type CartRepository struct {
	db uow.DBTX
}

func NewCartRepository(db uow.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateByOwner возвращает корзину владельца вместе с позициями, создавая
// пустую при отсутствии. Ключ поиска один: либо customer_id, либо
// session_token.
func (r *CartRepository) GetOrCreateByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	cart, err := r.findByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if convErr := convertErr(err, "finding cart"); !isNotFound(convErr) {
		return nil, convErr
	}

	var row pgx.Row
	if customerID, ok := owner.CustomerID(); ok {
		row = r.db.QueryRow(ctx, `
			INSERT INTO carts (customer_id) VALUES ($1)
			RETURNING id, created_at, updated_at, customer_id, session_token`, customerID)
	} else if token, tokenOK := owner.SessionToken(); tokenOK {
		row = r.db.QueryRow(ctx, `
			INSERT INTO carts (session_token) VALUES ($1)
			RETURNING id, created_at, updated_at, customer_id, session_token`, token)
	} else {
		return nil, convertErr(pgx.ErrNoRows, "creating cart: empty owner")
	}

	created, scanErr := scanCart(row)
	if scanErr != nil {
		return nil, convertErr(scanErr, "creating cart")
	}
	created.Items = []domain.CartItem{}
	return created, nil
}

func (r *CartRepository) findByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	var row pgx.Row
	if customerID, ok := owner.CustomerID(); ok {
		row = r.db.QueryRow(ctx, `
			SELECT id, created_at, updated_at, customer_id, session_token
			FROM carts WHERE customer_id = $1`, customerID)
	} else if token, tokenOK := owner.SessionToken(); tokenOK {
		row = r.db.QueryRow(ctx, `
			SELECT id, created_at, updated_at, customer_id, session_token
			FROM carts WHERE session_token = $1`, token)
	} else {
		return nil, pgx.ErrNoRows
	}

	cart, err := scanCart(row)
	if err != nil {
		return nil, err
	}

	items, itemsErr := r.itemsByCartID(ctx, cart.ID)
	if itemsErr != nil {
		return nil, itemsErr
	}
	cart.Items = items
	return cart, nil
}

// UpsertItem добавляет позицию или увеличивает количество существующей.
// Цена существующей позиции не трогается: она зафиксирована на момент первого
// добавления.
func (r *CartRepository) UpsertItem(ctx context.Context, cartID int64, item repoargs.CartItemUpsert) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (cart_id, menu_item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, menu_item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, item.MenuItemID, item.Quantity, item.UnitPrice)
	if err != nil {
		return convertErr(err, "upserting cart item %d", item.MenuItemID)
	}
	return nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, menuItemID int64, quantity int32) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND menu_item_id = $2`,
		cartID, menuItemID, quantity)
	if err != nil {
		return convertErr(err, "updating cart item %d quantity", menuItemID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating cart item %d quantity", menuItemID)
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, menuItemID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1 AND menu_item_id = $2`, cartID, menuItemID)
	if err != nil {
		return convertErr(err, "removing cart item %d", menuItemID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "removing cart item %d", menuItemID)
	}
	return nil
}

// ClearItems удаляет все позиции корзины. Вызывается в той же транзакции, что
// и создание заказа.
func (r *CartRepository) ClearItems(ctx context.Context, cartID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return convertErr(err, "clearing cart %d", cartID)
	}
	return nil
}

func (r *CartRepository) itemsByCartID(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, cart_id, menu_item_id, quantity, unit_price
		FROM cart_items WHERE cart_id = $1
		ORDER BY id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if scanErr := rows.Scan(&item.ID, &item.CartID, &item.MenuItemID, &item.Quantity, &item.UnitPrice); scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanCart(row rowScanner) (*domain.Cart, error) {
	var c domain.Cart
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.CustomerID, &c.SessionToken); err != nil {
		return nil, err
	}
	return &c, nil
}
