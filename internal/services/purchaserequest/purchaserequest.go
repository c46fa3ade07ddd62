// Package services содержит бизнес-логику заявок на закупку ингредиентов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	notificationsrv "github.com/magabrotheeeer/cafeteria-backend/internal/services/notification"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Ошибки работы с заявками на закупку.
var (
	// ErrRequestNotFound — заявка не найдена.
	ErrRequestNotFound = errors.New("purchase request not found")
	// ErrRequestDecided — заявка уже рассмотрена.
	ErrRequestDecided = errors.New("purchase request already decided")
	// ErrIngredientNotFound возвращается при позиции с несуществующим ингредиентом.
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// PurchaseRequestService реализует жизненный цикл заявок: создание
// поваром, рассмотрение администратором, пополнение склада при одобрении.
type PurchaseRequestService struct {
	storage       *repository.Storage
	notifications *notificationsrv.NotificationService
	log           *slog.Logger
}

// NewPurchaseRequestService создает новый экземпляр PurchaseRequestService.
func NewPurchaseRequestService(storage *repository.Storage, notifications *notificationsrv.NotificationService, log *slog.Logger) *PurchaseRequestService {
	return &PurchaseRequestService{storage: storage, notifications: notifications, log: log}
}

// Create создает заявку на закупку и уведомляет администраторов.
func (s *PurchaseRequestService) Create(ctx context.Context, createdBy int64, req models.DummyPurchaseRequest) (int64, error) {
	items := make([]models.PurchaseItem, 0, len(req.Items))
	totalCost := 0
	for _, item := range req.Items {
		ingredient, err := s.storage.GetIngredient(ctx, item.IngredientID)
		if err != nil {
			return 0, err
		}
		if ingredient == nil {
			return 0, fmt.Errorf("ingredient %d: %w", item.IngredientID, ErrIngredientNotFound)
		}
		items = append(items, models.PurchaseItem{
			IngredientID:  item.IngredientID,
			Quantity:      item.Quantity,
			EstimatedCost: item.EstimatedCost,
		})
		totalCost += item.EstimatedCost
	}

	id, err := s.storage.CreatePurchaseRequest(ctx,
		models.PurchaseRequest{CreatedBy: createdBy, Notes: req.Notes}, items)
	if err != nil {
		return 0, err
	}

	s.log.Info("purchase request created",
		slog.Int64("id", id), slog.Int64("created_by", createdBy))

	title := "Новая заявка на закупку"
	message := fmt.Sprintf("Создана заявка №%d на сумму около %d руб., требуется рассмотрение.",
		id, totalCost)
	if err := s.notifications.NotifyRole(ctx, models.RoleAdmin, title, message); err != nil {
		s.log.Warn("failed to notify admins about new request", sl.Err(err))
	}

	return id, nil
}

// List возвращает заявки. При createdBy > 0 — только заявки этого
// пользователя.
func (s *PurchaseRequestService) List(ctx context.Context, createdBy int64, limit, offset int) ([]*models.PurchaseRequestView, error) {
	requests, err := s.storage.ListPurchaseRequests(ctx, createdBy, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]*models.PurchaseRequestView, 0, len(requests))
	for _, request := range requests {
		view, err := s.buildView(ctx, request)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Decide рассматривает заявку. При одобрении количества позиций
// добавляются в запасы склада; создатель заявки получает уведомление.
func (s *PurchaseRequestService) Decide(ctx context.Context, id, approvedBy int64, status string) (*models.PurchaseRequestView, error) {
	request, err := s.storage.GetPurchaseRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status != models.RequestPending {
		return nil, ErrRequestDecided
	}

	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ok, err := tx.DecidePurchaseRequest(ctx, id, approvedBy, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRequestDecided
	}

	if status == models.RequestApproved {
		items, err := tx.ListPurchaseItemsTx(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if _, _, err := tx.AdjustInventory(ctx, item.IngredientID, item.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("purchase request decided",
		slog.Int64("id", id), slog.String("status", status))

	var title, message string
	if status == models.RequestApproved {
		title = "Заявка на закупку одобрена"
		message = fmt.Sprintf("Ваша заявка №%d одобрена, запасы склада пополнены.", id)
	} else {
		title = "Заявка на закупку отклонена"
		message = fmt.Sprintf("Ваша заявка №%d отклонена администратором.", id)
	}
	if err := s.notifications.Notify(ctx, request.CreatedBy, title, message); err != nil {
		s.log.Warn("failed to notify request creator", sl.Err(err))
	}

	decided, err := s.storage.GetPurchaseRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, decided)
}

func (s *PurchaseRequestService) buildView(ctx context.Context, request *models.PurchaseRequest) (*models.PurchaseRequestView, error) {
	items, err := s.storage.ListPurchaseItems(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	totalCost := 0
	for _, item := range items {
		totalCost += item.EstimatedCost
	}
	return &models.PurchaseRequestView{
		PurchaseRequest: *request,
		Items:           items,
		TotalCost:       totalCost,
	}, nil
}
