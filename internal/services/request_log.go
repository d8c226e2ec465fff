package services

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/utils"
)

type RequestLogServiceInterface interface {
	GetRequestLogs(ctx context.Context, requestID uint64) ([]dto.RequestLogDTO, error)
}

type RequestLogService struct {
	requestRepo repositories.RequestRepositoryInterface
	logRepo     repositories.RequestLogRepositoryInterface
	logger      *zap.Logger
}

func NewRequestLogService(
	requestRepo repositories.RequestRepositoryInterface,
	logRepo repositories.RequestLogRepositoryInterface,
	logger *zap.Logger,
) *RequestLogService {
	return &RequestLogService{requestRepo: requestRepo, logRepo: logRepo, logger: logger}
}

// GetRequestLogs возвращает журнал в хронологическом порядке.
// Для несуществующей заявки - ErrRequestNotFound, а не пустой список.
func (s *RequestLogService) GetRequestLogs(ctx context.Context, requestID uint64) ([]dto.RequestLogDTO, error) {
	if _, err := s.requestRepo.FindRequest(ctx, requestID); err != nil {
		return nil, err
	}

	items, err := s.logRepo.FindByRequestID(ctx, requestID)
	if err != nil {
		s.logger.Error("Ошибка при получении журнала заявки", zap.Uint64("requestId", requestID), zap.Error(err))
		return nil, err
	}

	res := make([]dto.RequestLogDTO, 0, len(items))
	for _, item := range items {
		res = append(res, dto.RequestLogDTO{
			ID:        item.ID,
			RequestID: item.RequestID,
			User: dto.ShortUserDTO{
				ID:       item.UserID,
				FullName: utils.SafeDeref(item.ActorName),
			},
			Action:    item.Action,
			OldValue:  item.OldValue,
			NewValue:  item.NewValue,
			CreatedAt: item.CreatedAt.Local().Format(dateTimeLayout),
		})
	}
	return res, nil
}
