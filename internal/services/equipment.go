package services

import (
	"context"
	"strings"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	GetCategories(ctx context.Context) ([]string, error)
	CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, data dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
}

type EquipmentService struct {
	equipmentRepository repositories.EquipmentRepositoryInterface
	logger              *zap.Logger
}

func NewEquipmentService(equipmentRepository repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepository: equipmentRepository,
		logger:              logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]dto.EquipmentDTO, uint64, error) {
	if filter.Status != "" && !contains(constants.EquipmentStatuses, filter.Status) {
		return nil, 0, apperrors.NewInvalidInputError("Недопустимый статус оборудования: %s", filter.Status)
	}

	list, err := s.equipmentRepository.GetEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	res := make([]dto.EquipmentDTO, 0, len(list))
	for i := range list {
		res = append(res, equipmentToDTO(&list[i]))
	}
	return res, uint64(len(res)), nil
}

// FindEquipment дополнительно считает открытые заявки (кнопка "Обслуживание" на карточке).
func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	openCount, err := s.equipmentRepository.CountOpenRequests(ctx, id)
	if err != nil {
		return nil, err
	}

	res := equipmentToDTO(equipment)
	res.OpenRequestsCount = &openCount
	return &res, nil
}

func (s *EquipmentService) GetCategories(ctx context.Context) ([]string, error) {
	return s.equipmentRepository.GetCategories(ctx)
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	serial := strings.TrimSpace(data.SerialNumber)
	name := strings.TrimSpace(data.Name)
	category := strings.TrimSpace(data.Category)
	if name == "" || serial == "" || category == "" {
		return nil, apperrors.NewInvalidInputError("Название, серийный номер и категория обязательны")
	}

	exists, err := s.equipmentRepository.SerialExists(ctx, serial, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewInvalidInputError("оборудование с серийным номером '%s' уже существует", serial)
	}

	equipment := &entities.Equipment{
		Name:              name,
		SerialNumber:      serial,
		Category:          category,
		MaintenanceTeamID: data.MaintenanceTeamID,
		Location:          data.Location.Ptr(),
		Model:             data.Model.Ptr(),
		Manufacturer:      data.Manufacturer.Ptr(),
		Description:       data.Description.Ptr(),
		Status:            constants.EquipmentStatusActive,
	}
	if data.DefaultTechnicianID.Valid {
		equipment.DefaultTechnicianID = data.DefaultTechnicianID.Ptr()
	}

	if _, err := s.equipmentRepository.CreateEquipment(ctx, equipment); err != nil {
		s.logger.Error("Ошибка при создании оборудования", zap.String("serial", serial), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Оборудование успешно создано", zap.Uint64("id", equipment.ID), zap.String("serial", serial))

	res := equipmentToDTO(equipment)
	return &res, nil
}

// UpdateEquipment меняет только переданные поля. Уже созданные заявки сохраняют категорию и команду,
// скопированные при создании.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, data dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	required := []struct {
		value  null.String
		target *string
	}{
		{data.Name, &equipment.Name},
		{data.SerialNumber, &equipment.SerialNumber},
		{data.Category, &equipment.Category},
	}
	serialBefore := equipment.SerialNumber
	for _, f := range required {
		if !f.value.Valid {
			continue
		}
		v := strings.TrimSpace(f.value.String)
		if v == "" {
			return nil, apperrors.NewInvalidInputError("Название, серийный номер и категория не могут быть пустыми")
		}
		*f.target = v
	}

	if equipment.SerialNumber != serialBefore {
		exists, err := s.equipmentRepository.SerialExists(ctx, equipment.SerialNumber, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewInvalidInputError("оборудование с серийным номером '%s' уже существует", equipment.SerialNumber)
		}
	}

	if data.MaintenanceTeamID.Valid {
		equipment.MaintenanceTeamID = data.MaintenanceTeamID.Uint64
	}
	if data.DefaultTechnicianID.Valid {
		equipment.DefaultTechnicianID = data.DefaultTechnicianID.Ptr()
	}
	if data.Status.Valid {
		if !contains(constants.EquipmentStatuses, data.Status.String) {
			return nil, apperrors.NewInvalidInputError("Недопустимый статус оборудования: %s", data.Status.String)
		}
		equipment.Status = data.Status.String
	}
	applyOptional(data.Location, &equipment.Location)
	applyOptional(data.Model, &equipment.Model)
	applyOptional(data.Manufacturer, &equipment.Manufacturer)
	applyOptional(data.Description, &equipment.Description)

	if err := s.equipmentRepository.UpdateEquipment(ctx, equipment); err != nil {
		s.logger.Error("Ошибка при обновлении оборудования", zap.Uint64("id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Оборудование обновлено", zap.Uint64("id", id))

	return s.FindEquipment(ctx, id)
}

// applyOptional: пустая строка очищает поле.
func applyOptional(value null.String, target **string) {
	if !value.Valid {
		return
	}
	v := strings.TrimSpace(value.String)
	if v == "" {
		*target = nil
		return
	}
	*target = &v
}

func equipmentToDTO(e *entities.Equipment) dto.EquipmentDTO {
	res := dto.EquipmentDTO{
		ID:           e.ID,
		Name:         e.Name,
		SerialNumber: e.SerialNumber,
		Category:     e.Category,
		Team:         dto.ShortTeamDTO{ID: e.MaintenanceTeamID, Name: utils.SafeDeref(e.TeamName)},
		Location:     e.Location,
		Model:        e.Model,
		Manufacturer: e.Manufacturer,
		Description:  e.Description,
		Status:       e.Status,
	}
	if e.DefaultTechnicianID != nil {
		res.DefaultTechnician = &dto.ShortUserDTO{
			ID:       *e.DefaultTechnicianID,
			FullName: utils.SafeDeref(e.TechnicianName),
		}
	}
	if e.CreatedAt != nil {
		res.CreatedAt = e.CreatedAt.Local().Format(dateTimeLayout)
	}
	return res
}
