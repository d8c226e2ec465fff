package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

type RequestQueryServiceInterface interface {
	GetRequests(ctx context.Context, filter types.RequestFilter) ([]dto.RequestDTO, uint64, error)
	GetKanban(ctx context.Context, filter types.RequestFilter) (dto.KanbanDTO, error)
	GetStats(ctx context.Context, filter types.StatsFilter) (*types.RequestStats, error)
}

type RequestQueryService struct {
	requestRepo repositories.RequestRepositoryInterface
	logger      *zap.Logger
}

func NewRequestQueryService(requestRepo repositories.RequestRepositoryInterface, logger *zap.Logger) *RequestQueryService {
	return &RequestQueryService{requestRepo: requestRepo, logger: logger}
}

func validateRequestFilter(filter types.RequestFilter) error {
	if filter.Status != "" && !constants.IsRequestStatus(filter.Status) {
		return apperrors.NewInvalidInputError("Недопустимый статус в фильтре: %s", filter.Status)
	}
	if filter.RequestType != "" && !contains(constants.RequestTypes, filter.RequestType) {
		return apperrors.NewInvalidInputError("Недопустимый тип заявки в фильтре: %s", filter.RequestType)
	}
	return nil
}

func (s *RequestQueryService) GetRequests(ctx context.Context, filter types.RequestFilter) ([]dto.RequestDTO, uint64, error) {
	if err := validateRequestFilter(filter); err != nil {
		return nil, 0, err
	}

	views, err := s.requestRepo.GetRequests(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при получении списка заявок", zap.Any("filter", filter), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.RequestDTO, 0, len(views))
	for i := range views {
		list = append(list, requestViewToDTO(&views[i]))
	}
	return list, uint64(len(list)), nil
}

// GetKanban - один запрос списка на каждую колонку, колонки грузятся параллельно.
// Фильтр по статусу из запроса игнорируется.
func (s *RequestQueryService) GetKanban(ctx context.Context, filter types.RequestFilter) (dto.KanbanDTO, error) {
	if err := validateRequestFilter(filter.WithStatus("")); err != nil {
		return nil, err
	}

	columns := make([][]dto.RequestDTO, len(constants.KanbanStatuses))
	g, gctx := errgroup.WithContext(ctx)
	for i, status := range constants.KanbanStatuses {
		g.Go(func() error {
			list, _, err := s.GetRequests(gctx, filter.WithStatus(status))
			if err != nil {
				return err
			}
			columns[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	board := make(dto.KanbanDTO, len(constants.KanbanStatuses))
	for i, status := range constants.KanbanStatuses {
		board[status] = columns[i]
	}
	return board, nil
}

func (s *RequestQueryService) GetStats(ctx context.Context, filter types.StatsFilter) (*types.RequestStats, error) {
	stats, err := s.requestRepo.GetStats(ctx, filter)
	if err != nil {
		s.logger.Error("Ошибка при подсчете статистики заявок", zap.Any("filter", filter), zap.Error(err))
		return nil, err
	}
	return stats, nil
}
