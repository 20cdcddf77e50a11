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

// ReportService - админские сводки по заказам.
type ReportService struct {
	orderRepo OrderRepository
	loc       *time.Location
}

func NewReportService(u uow.UOW, loc *time.Location) (*ReportService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &ReportService{
		orderRepo: orderRepo,
		loc:       loc,
	}, nil
}

// DailyRevenue возвращает сумму завершенных заказов за календарные сутки.
// Границы суток считаются в бизнесовой временной зоне.
func (r *ReportService) DailyRevenue(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, r.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	revenue, err := r.orderRepo.SumCompletedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return decimal.Zero, fmt.Errorf("calculating revenue for %s: %w", dayStart.Format(time.DateOnly), err)
	}
	return revenue, nil
}

// StatusCounts возвращает количество заказов в разрезе статусов.
func (r *ReportService) StatusCounts(ctx context.Context) (map[domain.OrderStatusType]int64, error) {
	counts, err := r.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return counts, nil
}
