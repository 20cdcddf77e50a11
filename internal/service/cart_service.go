package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/shopspring/decimal"
)

// CartService управляет корзиной покупателя. Корзина принадлежит либо
// авторизованному клиенту, либо анонимной сессии (domain.CartOwner).
type CartService struct {
	uow      uow.UOW
	cartRepo CartRepository
}

func NewCartService(u uow.UOW) (*CartService, error) {
	cartRepo, err := uow.GetRepositoryAs[CartRepository](u, uow.RepositoryName(repoargs.CartRepoName))
	if err != nil {
		return nil, err
	}
	return &CartService{
		uow:      u,
		cartRepo: cartRepo,
	}, nil
}

// Get возвращает корзину владельца, создавая пустую если её ещё нет.
func (s *CartService) Get(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	if owner.Zero() {
		return nil, fmt.Errorf("%w: cart owner is empty", domain.ErrValidation)
	}
	cart, err := s.cartRepo.GetOrCreateByOwner(ctx, owner)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return cart, nil
}

// AddItem добавляет позицию в корзину. Если позиция уже есть, количество
// суммируется, а цена остается той, по которой позиция была добавлена
// впервые.
func (s *CartService) AddItem(
	ctx context.Context,
	owner domain.CartOwner,
	menuItemID int64,
	quantity int32,
	unitPrice decimal.Decimal,
) (*domain.Cart, error) {
	if owner.Zero() {
		return nil, fmt.Errorf("%w: cart owner is empty", domain.ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", domain.ErrValidation)
	}

	var cart *domain.Cart
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		dbCart, cartErr := repo.GetOrCreateByOwner(c, owner)
		if cartErr != nil {
			return cartErr //nolint:wrapcheck
		}
		upsertErr := repo.UpsertItem(c, dbCart.ID, repoargs.CartItemUpsert{
			MenuItemID: menuItemID,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
		})
		if upsertErr != nil {
			return upsertErr //nolint:wrapcheck
		}
		// Перечитываем, чтобы вернуть корзину с актуальными количествами.
		cart, cartErr = repo.GetOrCreateByOwner(c, owner)
		return cartErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("adding cart item: %w", txErr)
	}
	return cart, nil
}

// UpdateItem выставляет количество позиции. Нулевое количество не
// допускается, для удаления есть RemoveItem.
func (s *CartService) UpdateItem(
	ctx context.Context,
	owner domain.CartOwner,
	menuItemID int64,
	quantity int32,
) (*domain.Cart, error) {
	if owner.Zero() {
		return nil, fmt.Errorf("%w: cart owner is empty", domain.ErrValidation)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	var cart *domain.Cart
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		dbCart, cartErr := repo.GetOrCreateByOwner(c, owner)
		if cartErr != nil {
			return cartErr //nolint:wrapcheck
		}
		if err := repo.UpdateItemQuantity(c, dbCart.ID, menuItemID, quantity); err != nil {
			return err //nolint:wrapcheck
		}
		cart, cartErr = repo.GetOrCreateByOwner(c, owner)
		return cartErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating cart item: %w", txErr)
	}
	return cart, nil
}

// RemoveItem убирает позицию из корзины.
func (s *CartService) RemoveItem(
	ctx context.Context,
	owner domain.CartOwner,
	menuItemID int64,
) (*domain.Cart, error) {
	if owner.Zero() {
		return nil, fmt.Errorf("%w: cart owner is empty", domain.ErrValidation)
	}

	var cart *domain.Cart
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[CartRepository](tx, uow.RepositoryName(repoargs.CartRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		dbCart, cartErr := repo.GetOrCreateByOwner(c, owner)
		if cartErr != nil {
			return cartErr //nolint:wrapcheck
		}
		if err := repo.RemoveItem(c, dbCart.ID, menuItemID); err != nil {
			return err //nolint:wrapcheck
		}
		cart, cartErr = repo.GetOrCreateByOwner(c, owner)
		return cartErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("removing cart item: %w", txErr)
	}
	return cart, nil
}
