package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
	"maintenance-system/pkg/validation"
)

const dateTimeLayout = "2006-01-02 15:04:05"

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO, requestedBy uint64) (*dto.CreatedRequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	UpdateStatus(ctx context.Context, id uint64, data dto.UpdateStatusDTO, actorID uint64) (*dto.StatusChangedDTO, error)
	AssignTechnician(ctx context.Context, id uint64, technicianID uint64, actorID uint64) (*dto.TechnicianAssignedDTO, error)
}

type RequestService struct {
	txManager     repositories.TxManagerInterface
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	logRepo       repositories.RequestLogRepositoryInterface
	numberService RequestNumberServiceInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logRepo repositories.RequestLogRepositoryInterface,
	numberService RequestNumberServiceInterface,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		txManager:     txManager,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		logRepo:       logRepo,
		numberService: numberService,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock подменяет источник времени (тесты, пересчет года).
func (s *RequestService) WithClock(now func() time.Time) *RequestService {
	s.now = now
	return s
}

// CreateRequest создает заявку. Категория и команда всегда копируются из карточки оборудования,
// техник по умолчанию - техник оборудования.
func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO, requestedBy uint64) (*dto.CreatedRequestDTO, error) {
	request, err := s.prepareRequest(data, requestedBy)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.FindEquipmentInTx(ctx, tx, data.EquipmentID)
		if err != nil {
			return err
		}

		request.EquipmentCategory = equipment.Category
		request.MaintenanceTeamID = equipment.MaintenanceTeamID
		if request.AssignedTo == nil && equipment.DefaultTechnicianID != nil {
			techID := *equipment.DefaultTechnicianID
			request.AssignedTo = &techID
		}

		// Год номера и created_at берутся из одного момента времени.
		createdAt := s.now()
		request.CreatedAt = &createdAt
		request.RequestNumber, err = s.numberService.NextNumber(ctx, tx, createdAt)
		if err != nil {
			return err
		}

		if _, err = s.requestRepo.CreateInTx(ctx, tx, request); err != nil {
			return err
		}

		return s.logRepo.CreateInTx(ctx, tx, &entities.RequestLog{
			RequestID: request.ID,
			UserID:    requestedBy,
			Action:    constants.LogActionCreated,
			NewValue:  utils.ToPtr(constants.RequestStatusNew),
		})
	})
	if err != nil {
		s.logger.Warn("Не удалось создать заявку",
			zap.Uint64("equipmentId", data.EquipmentID), zap.Uint64("requestedBy", requestedBy), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Заявка создана",
		zap.Uint64("requestId", request.ID),
		zap.String("requestNumber", request.RequestNumber),
		zap.Uint64("teamId", request.MaintenanceTeamID),
	)
	return &dto.CreatedRequestDTO{ID: request.ID, RequestNumber: request.RequestNumber}, nil
}

// prepareRequest проверяет ввод до любых обращений к хранилищу.
func (s *RequestService) prepareRequest(data dto.CreateRequestDTO, requestedBy uint64) (*entities.MaintenanceRequest, error) {
	subject := strings.TrimSpace(data.Subject)
	if subject == "" {
		return nil, apperrors.NewInvalidInputError("Тема заявки обязательна")
	}
	if utf8.RuneCountInString(subject) > constants.SubjectMaxLength {
		return nil, apperrors.NewInvalidInputError("Тема заявки длиннее %d символов", constants.SubjectMaxLength)
	}
	if data.EquipmentID == 0 {
		return nil, apperrors.NewInvalidInputError("Оборудование обязательно")
	}
	if data.RequestType == "" {
		return nil, apperrors.NewInvalidInputError("Тип заявки обязателен")
	}
	if !contains(constants.RequestTypes, data.RequestType) {
		return nil, apperrors.NewInvalidInputError("Недопустимый тип заявки: %s", data.RequestType)
	}
	if requestedBy == 0 {
		return nil, apperrors.NewInvalidInputError("Автор заявки обязателен")
	}

	priority := data.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}
	if !contains(constants.Priorities, priority) {
		return nil, apperrors.NewInvalidInputError("Недопустимый приоритет: %s", priority)
	}

	request := &entities.MaintenanceRequest{
		Subject:     subject,
		EquipmentID: data.EquipmentID,
		RequestType: data.RequestType,
		Priority:    priority,
		Status:      constants.RequestStatusNew,
		RequestedBy: requestedBy,
	}

	if data.Description.Valid {
		if d := strings.TrimSpace(data.Description.String); d != "" {
			request.Description = &d
		}
	}
	if data.ScheduledDate.Valid && data.ScheduledDate.String != "" {
		scheduled, err := time.Parse(validation.IsoDateLayout, data.ScheduledDate.String)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("Некорректная плановая дата: %s", data.ScheduledDate.String)
		}
		request.ScheduledDate = &scheduled
	}
	if data.AssignedTo.Valid && data.AssignedTo.Uint64 != 0 {
		assignee := data.AssignedTo.Uint64
		request.AssignedTo = &assignee
	}
	return request, nil
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	view, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	res := requestViewToDTO(view)
	return &res, nil
}

// UpdateStatus меняет статус одной транзакцией: статус, даты, списание оборудования и журнал
// применяются целиком или не применяются вовсе.
func (s *RequestService) UpdateStatus(ctx context.Context, id uint64, data dto.UpdateStatusDTO, actorID uint64) (*dto.StatusChangedDTO, error) {
	if !constants.IsRequestStatus(data.Status) {
		return nil, apperrors.NewInvalidInputError("Недопустимый статус: %s", data.Status)
	}
	if actorID == 0 {
		return nil, apperrors.NewInvalidInputError("Не указан пользователь, меняющий статус")
	}
	var hours *float64
	if data.DurationHours.Valid {
		h := roundHours(data.DurationHours.Float64)
		if h < 0 || math.IsNaN(h) {
			return nil, apperrors.NewInvalidInputError("Длительность не может быть отрицательной")
		}
		if h > constants.MaxDurationHours {
			return nil, apperrors.NewInvalidInputError("Длительность не может превышать %.2f ч", constants.MaxDurationHours)
		}
		hours = &h
	}

	result := &dto.StatusChangedDTO{ID: id, NewStatus: data.Status}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		result.OldStatus = current.Status

		if !CanTransition(current.Status, data.Status) {
			return apperrors.NewInvalidInputError("Переход статуса %s → %s запрещен", current.Status, data.Status)
		}

		var (
			completedDate *time.Time
			duration      *float64
		)
		if constants.IsTerminalStatus(data.Status) {
			now := s.now()
			completedDate = &now
			duration = hours
		}

		if err = s.requestRepo.UpdateStatusInTx(ctx, tx, id, data.Status, completedDate, duration); err != nil {
			return err
		}

		if data.Status == constants.RequestStatusScrap {
			if err = s.equipmentRepo.SetStatusInTx(ctx, tx, current.EquipmentID, constants.EquipmentStatusScrapped); err != nil {
				return err
			}
		}

		if err = s.logRepo.CreateInTx(ctx, tx, &entities.RequestLog{
			RequestID: id,
			UserID:    actorID,
			Action:    constants.LogActionStatusChanged,
			OldValue:  utils.ToPtr(current.Status),
			NewValue:  utils.ToPtr(data.Status),
		}); err != nil {
			return err
		}

		if completedDate != nil {
			result.CompletedDate = utils.ToPtr(completedDate.Format(dateTimeLayout))
		}
		result.DurationHours = duration
		return nil
	})
	if err != nil {
		s.logger.Warn("Не удалось сменить статус заявки",
			zap.Uint64("requestId", id), zap.String("status", data.Status), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Статус заявки изменен",
		zap.Uint64("requestId", id),
		zap.String("from", result.OldStatus),
		zap.String("to", result.NewStatus),
		zap.Uint64("actorId", actorID),
	)
	return result, nil
}

// AssignTechnician назначает техника. Принадлежность техника команде заявки не проверяется.
func (s *RequestService) AssignTechnician(ctx context.Context, id uint64, technicianID uint64, actorID uint64) (*dto.TechnicianAssignedDTO, error) {
	if technicianID == 0 {
		return nil, apperrors.NewInvalidInputError("Техник обязателен")
	}
	if actorID == 0 {
		return nil, apperrors.NewInvalidInputError("Не указан пользователь, назначающий техника")
	}

	result := &dto.TechnicianAssignedDTO{ID: id, TechnicianID: technicianID}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		exists, err := s.userRepo.ExistsInTx(ctx, tx, technicianID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrTechnicianNotFound
		}

		if err = s.requestRepo.AssignInTx(ctx, tx, id, technicianID); err != nil {
			return err
		}

		result.OldAssignee = current.AssignedTo
		return s.logRepo.CreateInTx(ctx, tx, &entities.RequestLog{
			RequestID: id,
			UserID:    actorID,
			Action:    constants.LogActionAssigned,
			OldValue:  utils.Uint64PtrToString(current.AssignedTo),
			NewValue:  utils.ToPtr(strconv.FormatUint(technicianID, 10)),
		})
	})
	if err != nil {
		s.logger.Warn("Не удалось назначить техника",
			zap.Uint64("requestId", id), zap.Uint64("technicianId", technicianID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Техник назначен", zap.Uint64("requestId", id), zap.Uint64("technicianId", technicianID))
	return result, nil
}

// roundHours приводит длительность к точности колонки duration_hours.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func contains(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func formatTimePtr(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	return utils.ToPtr(t.Local().Format(layout))
}

func requestViewToDTO(v *entities.MaintenanceRequestView) dto.RequestDTO {
	res := dto.RequestDTO{
		ID:            v.ID,
		RequestNumber: v.RequestNumber,
		Subject:       v.Subject,
		Description:   v.Description,
		Equipment: dto.ShortEquipmentDTO{
			ID:           v.EquipmentID,
			Name:         v.EquipmentName,
			SerialNumber: v.SerialNumber,
		},
		EquipmentCategory: v.EquipmentCategory,
		Team:              dto.ShortTeamDTO{ID: v.MaintenanceTeamID, Name: v.TeamName},
		RequestType:       v.RequestType,
		Priority:          v.Priority,
		Status:            v.Status,
		CompletedDate:     formatTimePtr(v.CompletedDate, dateTimeLayout),
		DurationHours:     v.DurationHours,
		RequestedBy: dto.ShortUserDTO{
			ID:       v.RequestedBy,
			FullName: utils.SafeDeref(v.RequesterName),
		},
		IsOverdue: v.IsOverdue,
	}
	if v.ScheduledDate != nil {
		// DATE без зоны, переводить в локальное время нельзя.
		res.ScheduledDate = utils.ToPtr(v.ScheduledDate.Format(validation.IsoDateLayout))
	}
	if v.AssignedTo != nil {
		res.AssignedTo = &dto.ShortUserDTO{
			ID:       *v.AssignedTo,
			FullName: utils.SafeDeref(v.TechnicianName),
			Avatar:   v.TechnicianAvatar,
		}
	}
	if v.CreatedAt != nil {
		res.CreatedAt = v.CreatedAt.Local().Format(dateTimeLayout)
	}
	return res
}
