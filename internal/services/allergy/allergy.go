// Package services содержит бизнес-логику учёта аллергий студентов.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// Ошибки работы с записями об аллергиях.
var (
	// ErrAllergyExists — запись этого типа уже есть у пользователя.
	ErrAllergyExists = errors.New("allergy already recorded")
	// ErrAllergyNotFound — запись не найдена или принадлежит другому пользователю.
	ErrAllergyNotFound = errors.New("allergy not found")
)

// AllergyService реализует записи студентов об аллергиях: один тип
// аллергена на пользователя, удалить можно только свою запись.
type AllergyService struct {
	storage *repository.Storage
	log     *slog.Logger
}

// NewAllergyService создает новый экземпляр AllergyService.
func NewAllergyService(storage *repository.Storage, log *slog.Logger) *AllergyService {
	return &AllergyService{storage: storage, log: log}
}

// Add создаёт запись об аллергии.
func (s *AllergyService) Add(ctx context.Context, userID int64, req models.DummyAllergy) (*models.Allergy, error) {
	allergy := models.Allergy{
		UserID:      userID,
		AllergyType: req.AllergyType,
		Notes:       req.Notes,
	}
	var err error
	allergy.ID, err = s.storage.InsertAllergy(ctx, allergy)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAllergyExists
		}
		return nil, err
	}

	s.log.Info("allergy recorded",
		slog.Int64("user_id", userID),
		slog.String("allergy_type", req.AllergyType))
	return &allergy, nil
}

// List возвращает записи об аллергиях пользователя.
func (s *AllergyService) List(ctx context.Context, userID int64) ([]*models.Allergy, error) {
	return s.storage.ListAllergies(ctx, userID)
}

// Delete удаляет запись об аллергии пользователя.
func (s *AllergyService) Delete(ctx context.Context, id, userID int64) error {
	ok, err := s.storage.DeleteAllergy(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAllergyNotFound
	}
	return nil
}
