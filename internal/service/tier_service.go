package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-food/internal/domain"
	"github.com/fsdevblog/groph-food/internal/repository/repoargs"
	"github.com/fsdevblog/groph-food/pkg/uow"
	"github.com/shopspring/decimal"
)

// TierService пересчитывает скидочный уровень клиента от суммы завершенных
// заказов текущего календарного месяца. Границы месяца считаются в бизнесовой
// временной зоне, не в UTC.
type TierService struct {
	uow uow.UOW
	loc *time.Location
	now func() time.Time
}

func NewTierService(u uow.UOW, loc *time.Location) *TierService {
	return &TierService{
		uow: u,
		loc: loc,
		now: time.Now,
	}
}

// Classify пересчитывает и сохраняет уровень клиента, возвращая срез
// состояния для выдачи наружу.
//
// Алгоритм работы:
//  1. Блокируется строка клиента (пересчеты одного клиента сериализуются).
//  2. Суммируются тоталы завершенных заказов с начала текущего месяца -
//     смена месяца тем самым обнуляет накопленное автоматически.
//  3. Сумма отображается на шкалу уровней, результат денормализуется в
//     строку клиента.
//
// Пересчет идемпотентен, его можно звать сколько угодно раз за запрос.
func (s *TierService) Classify(ctx context.Context, customerID int64) (*domain.TierInfo, error) {
	var info *domain.TierInfo
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var err error
		info, err = s.ClassifyWithin(c, tx, customerID)
		return err
	})
	if txErr != nil {
		return nil, fmt.Errorf("classifying tier of customer %d: %w", customerID, txErr)
	}
	return info, nil
}

// ClassifyWithin - тот же пересчет внутри уже открытой транзакции. Нужен
// переходу заказа в completed: смена статуса и пересчет уровня коммитятся
// одной единицей.
func (s *TierService) ClassifyWithin(ctx context.Context, tx uow.TX, customerID int64) (*domain.TierInfo, error) {
	customerRepo, customerRepoErr := uow.GetAs[CustomerRepository](tx, uow.RepositoryName(repoargs.CustomerRepoName))
	if customerRepoErr != nil {
		return nil, customerRepoErr //nolint:wrapcheck
	}
	orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if orderRepoErr != nil {
		return nil, orderRepoErr //nolint:wrapcheck
	}

	if _, err := customerRepo.GetByIDForUpdate(ctx, customerID); err != nil {
		return nil, err //nolint:wrapcheck
	}

	now := s.now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	spend, spendErr := orderRepo.SumCompletedForCustomerSince(ctx, customerID, monthStart)
	if spendErr != nil {
		return nil, spendErr //nolint:wrapcheck
	}

	tier := domain.TierForSpend(spend)
	updErr := customerRepo.UpdateTier(ctx, repoargs.TierUpdate{
		CustomerID:    customerID,
		Tier:          tier,
		MonthlySpend:  spend,
		TierUpdatedAt: now,
	})
	if updErr != nil {
		return nil, updErr //nolint:wrapcheck
	}

	return buildTierInfo(tier, spend), nil
}

func buildTierInfo(tier domain.TierType, spend decimal.Decimal) *domain.TierInfo {
	info := &domain.TierInfo{
		Tier:         tier,
		MonthlySpend: spend,
		DiscountPct:  tier.DiscountPct(),
	}
	if next, threshold, ok := tier.Next(); ok {
		info.NextTier = &next
		info.AmountToNextTier = threshold.Sub(spend)
	}
	return info
}
