package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/shopspring/decimal"
)

// WalletService - операции над кошельком клиента. Баланс хранится
// денормализованно в строке клиента, а каждое движение средств фиксируется
// записью в журнале wallet_transactions.
type WalletService struct {
	uow        uow.UOW
	walletRepo WalletRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	walletRepo, err := uow.GetRepositoryAs[WalletRepository](u, uow.RepositoryName(repoargs.WalletRepoName))
	if err != nil {
		return nil, err
	}
	return &WalletService{
		uow:        u,
		walletRepo: walletRepo,
	}, nil
}

// Topup пополняет кошелек клиента на положительную сумму.
func (s *WalletService) Topup(
	ctx context.Context,
	customerID int64,
	amount decimal.Decimal,
	description string,
) (*domain.WalletTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: topup amount must be positive", domain.ErrValidation)
	}

	var trans *domain.WalletTransaction
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[WalletRepository](tx, uow.RepositoryName(repoargs.WalletRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var applyErr error
		trans, applyErr = repo.Apply(c, repoargs.WalletTransactionCreate{
			CustomerID:  customerID,
			Amount:      amount,
			Type:        domain.WalletTransactionTopup,
			Description: description,
		})
		return applyErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("topping up wallet of customer %d: %w", customerID, txErr)
	}
	return trans, nil
}

// Balance возвращает текущий остаток кошелька.
func (s *WalletService) Balance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	balance, err := s.walletRepo.GetBalance(ctx, customerID)
	if err != nil {
		return decimal.Zero, err //nolint:wrapcheck
	}
	return balance, nil
}

// Transactions возвращает журнал движений по кошельку, новые записи первыми.
func (s *WalletService) Transactions(ctx context.Context, customerID int64) ([]domain.WalletTransaction, error) {
	transactions, err := s.walletRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}
