package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
)

type RequestNumberServiceInterface interface {
	NextNumber(ctx context.Context, tx pgx.Tx, now time.Time) (string, error)
}

type RequestNumberService struct {
	numberRepo repositories.RequestNumberRepositoryInterface
}

func NewRequestNumberService(numberRepo repositories.RequestNumberRepositoryInterface) RequestNumberServiceInterface {
	return &RequestNumberService{numberRepo: numberRepo}
}

// NextNumber выдает номер вида REQ-2025-0001 в рамках транзакции создания заявки.
// Если транзакция откатится, счетчик откатится вместе с ней.
func (s *RequestNumberService) NextNumber(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	year := now.Year()
	seq, err := s.numberRepo.NextSequenceInTx(ctx, tx, year)
	if err != nil {
		return "", err
	}
	return FormatRequestNumber(year, seq), nil
}

func FormatRequestNumber(year, seq int) string {
	return fmt.Sprintf(constants.RequestNumberFormat, year, seq)
}
