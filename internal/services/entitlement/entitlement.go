// Package services содержит ядро учёта питания: определение источника
// финансирования и атомарное списание с записью о выдаче.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cafeteria-backend/internal/metrics"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Источники финансирования выдачи питания.
const (
	SourceSubscription = "subscription"
	SourcePayment      = "payment"
	SourcePurchase     = "purchase"
	SourceRecord       = "record"
)

// Ошибки ядра учёта питания.
var (
	// ErrNoEntitlement — у пользователя нет действующего основания на питание.
	ErrNoEntitlement = errors.New("no valid entitlement")
	// ErrAlreadyClaimed — питание этого типа за день уже получено.
	ErrAlreadyClaimed = errors.New("meal already claimed today")
	// ErrPurchaseUsed — предоплаченное блюдо уже погашено.
	ErrPurchaseUsed = errors.New("dish purchase already used")
	// ErrMealRecordNotFound — запись о выдаче не найдена.
	ErrMealRecordNotFound = errors.New("meal record not found")
	// ErrMenuNotFound — меню не найдено.
	ErrMenuNotFound = errors.New("menu not found")
)

// EntitlementService проверяет основания на питание и проводит выдачу.
// Проверка и списание выполняются в одной транзакции с блокировкой
// строк абонемента и покупки.
type EntitlementService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewEntitlementService создает новый экземпляр EntitlementService.
func NewEntitlementService(storage *repository.Storage, log *slog.Logger) *EntitlementService {
	return &EntitlementService{storage: storage, log: log}
}

// Claim подтверждает получение питания студентом. Источник выбирается
// в порядке: активный абонемент, разовый платёж за сегодня,
// непогашенное предоплаченное блюдо. Требует существующего меню:
// без меню на день студент получает ErrMenuNotFound. Возвращает
// запись о выдаче и источник финансирования.
func (s *EntitlementService) Claim(ctx context.Context, userID int64, req models.DummyClaim, now time.Time) (*models.MealRecord, string, error) {
	mealType, menuID, err := s.resolveMenu(ctx, req.MealType, req.MenuID, now)
	if err != nil {
		return nil, "", err
	}

	record, source, err := s.claim(ctx, userID, mealType, menuID, now)
	if err != nil {
		return nil, "", err
	}

	metrics.MealsClaimed.WithLabelValues(source).Inc()
	s.log.Info("meal claimed",
		slog.Int64("user_id", userID),
		slog.String("meal_type", mealType),
		slog.String("source", source))
	return record, source, nil
}

// Serve отмечает выдачу питания поваром: либо подтверждает существующую
// запись по MealID, либо проводит выдачу студенту UserID по общим
// правилам, создавая меню на день при его отсутствии.
func (s *EntitlementService) Serve(ctx context.Context, req models.DummyServe, now time.Time) (*models.MealRecord, string, error) {
	if req.MealID != 0 {
		record, err := s.confirmRecord(ctx, req.MealID, now)
		if err != nil {
			return nil, "", err
		}
		metrics.MealsClaimed.WithLabelValues(SourceRecord).Inc()
		s.log.Info("meal record confirmed", slog.Int64("meal_id", req.MealID))
		return record, SourceRecord, nil
	}

	if req.UserID == 0 {
		return nil, "", ErrMealRecordNotFound
	}
	mealType := req.MealType
	if mealType == "" {
		mealType = models.MealLunch
	}
	menuID := req.MenuID
	if menuID != 0 {
		menu, err := s.storage.GetMenu(ctx, menuID)
		if err != nil {
			return nil, "", err
		}
		if menu == nil {
			return nil, "", ErrMenuNotFound
		}
		mealType = menu.MealType
	}

	record, source, err := s.claim(ctx, req.UserID, mealType, menuID, now)
	if err != nil {
		return nil, "", err
	}

	metrics.MealsClaimed.WithLabelValues(source).Inc()
	s.log.Info("meal served",
		slog.Int64("user_id", req.UserID),
		slog.String("meal_type", mealType),
		slog.String("source", source))
	return record, source, nil
}

// ListMy возвращает историю выдач питания пользователю.
func (s *EntitlementService) ListMy(ctx context.Context, userID int64, limit, offset int) ([]*models.MealRecord, error) {
	return s.storage.ListMealRecords(ctx, userID, limit, offset)
}

// resolveMenu находит меню выдачи. Явный menuID определяет и тип
// приёма пищи; без него берётся активное меню на день. Меню
// не создаётся: это прерогатива повара.
func (s *EntitlementService) resolveMenu(ctx context.Context, mealType string, menuID int64, now time.Time) (string, int64, error) {
	if mealType == "" {
		mealType = models.MealLunch
	}

	if menuID != 0 {
		menu, err := s.storage.GetMenu(ctx, menuID)
		if err != nil {
			return "", 0, err
		}
		if menu == nil {
			return "", 0, ErrMenuNotFound
		}
		return menu.MealType, menu.ID, nil
	}

	menu, err := s.storage.GetMenuByDateType(ctx, now, mealType)
	if err != nil {
		return "", 0, err
	}
	if menu == nil {
		return "", 0, ErrMenuNotFound
	}
	return mealType, menu.ID, nil
}

func (s *EntitlementService) claim(ctx context.Context, userID int64, mealType string, menuID int64, now time.Time) (*models.MealRecord, string, error) {
	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	claimed, err := tx.HasConfirmedMealRecord(ctx, userID, mealType, now)
	if err != nil {
		return nil, "", err
	}
	if claimed {
		return nil, "", ErrAlreadyClaimed
	}

	source, err := s.consumeFunding(ctx, tx, userID, mealType, now)
	if err != nil {
		return nil, "", err
	}

	if menuID == 0 {
		menuID, err = tx.EnsureMenu(ctx, now, mealType)
		if err != nil {
			return nil, "", err
		}
	}

	record := models.MealRecord{
		UserID:      userID,
		MenuID:      menuID,
		MealType:    mealType,
		IsConfirmed: true,
		ReceivedAt:  now,
	}
	record.ID, err = tx.InsertMealRecord(ctx, record)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, "", ErrAlreadyClaimed
		}
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, "", ErrAlreadyClaimed
		}
		return nil, "", err
	}
	return &record, source, nil
}

// consumeFunding списывает основание на питание в порядке приоритета.
func (s *EntitlementService) consumeFunding(ctx context.Context, tx *repository.Tx, userID int64, mealType string, now time.Time) (string, error) {
	sub, err := tx.LockActiveSubscription(ctx, userID)
	if err != nil {
		return "", err
	}
	if sub != nil && sub.IsValid(now) && sub.MealsRemaining > 0 {
		_, ok, err := tx.DecrementSubscriptionMeals(ctx, sub.ID)
		if err != nil {
			return "", err
		}
		if ok {
			return SourceSubscription, nil
		}
	}

	payment, err := tx.FindSameDaySinglePayment(ctx, userID, now)
	if err != nil {
		return "", err
	}
	if payment != nil {
		return SourcePayment, nil
	}

	purchase, err := tx.LockUnusedPurchase(ctx, userID, mealType)
	if err != nil {
		return "", err
	}
	if purchase != nil {
		ok, err := tx.MarkPurchaseUsed(ctx, purchase.ID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrPurchaseUsed
		}
		return SourcePurchase, nil
	}

	return "", ErrNoEntitlement
}

func (s *EntitlementService) confirmRecord(ctx context.Context, mealID int64, now time.Time) (*models.MealRecord, error) {
	tx, err := s.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	record, err := tx.LockMealRecord(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrMealRecordNotFound
	}
	if record.IsConfirmed {
		return nil, ErrAlreadyClaimed
	}

	ok, err := tx.ConfirmMealRecord(ctx, mealID, now)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyClaimed
	}

	if err := tx.Commit(); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}

	record.IsConfirmed = true
	record.ReceivedAt = now
	return record, nil
}
