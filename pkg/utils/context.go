package utils

import (
	"context"

	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

// GetUserIDFromCtx достает ID действующего пользователя, положенный AuthMiddleware.
func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	raw := ctx.Value(contextkeys.UserIDKey)
	if raw == nil {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	userID, ok := raw.(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrInvalidUserID
	}
	return userID, nil
}

func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}
