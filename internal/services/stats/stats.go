// Package services содержит бизнес-логику статистики для администратора.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	menusrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/menu"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// StatsService собирает статистику по базе. Сводка панели
// администратора кешируется на короткое время.
type StatsService struct {
	storage *repository.Storage
	cache   menusrv.Cache
	log     *slog.Logger
}

// NewStatsService создает новый экземпляр StatsService.
func NewStatsService(storage *repository.Storage, cache menusrv.Cache, log *slog.Logger) *StatsService {
	return &StatsService{storage: storage, cache: cache, log: log}
}

// Dashboard возвращает сводку для панели администратора на указанный день.
func (s *StatsService) Dashboard(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	cacheKey := "stats:dashboard:" + now.Format("2006-01-02")
	var cached *models.DashboardStats
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read dashboard from cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	stats := &models.DashboardStats{}

	byRole, err := s.storage.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}
	stats.Students = byRole[models.RoleStudent]

	stats.ActiveSubs, err = s.storage.CountActiveSubscriptionsOn(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.MealsToday, err = s.storage.CountMealsServedOn(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.RevenueToday, err = s.storage.RevenueOnDay(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount, err = s.storage.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.PendingRequests, err = s.storage.CountPendingRequests(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, stats, time.Minute); err != nil {
		s.log.Warn("failed to cache dashboard", slog.Any("err", err))
	}
	return stats, nil
}

// Payments возвращает агрегаты платежей по типам за период.
func (s *StatsService) Payments(ctx context.Context, from, to time.Time) ([]models.PaymentStat, error) {
	return s.storage.PaymentStats(ctx, from, to)
}

// Attendance возвращает посещаемость по дням за период.
func (s *StatsService) Attendance(ctx context.Context, from, to time.Time) ([]models.AttendanceStat, error) {
	return s.storage.AttendanceByDay(ctx, from, to)
}
