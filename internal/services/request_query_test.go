package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

func TestGetKanban_AlwaysHasFourColumns(t *testing.T) {
	f := newFixture()

	board, err := f.queries.GetKanban(context.Background(), types.RequestFilter{})
	require.NoError(t, err)

	require.Len(t, board, 4)
	for _, status := range constants.KanbanStatuses {
		column, ok := board[status]
		assert.True(t, ok, status)
		assert.NotNil(t, column, "пустая колонка должна быть [], а не null")
		assert.Empty(t, column)
	}
}

func TestGetKanban_GroupsByStatusAndIgnoresStatusFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	newID := createOne(t, f, equipLathe)
	progressID := createOne(t, f, equipLathe)
	repairedID := createOne(t, f, equipNoTech)
	_, err := f.requests.UpdateStatus(ctx, progressID, dto.UpdateStatusDTO{Status: constants.RequestStatusInProgress}, userTechnician)
	require.NoError(t, err)
	_, err = f.requests.UpdateStatus(ctx, repairedID, dto.UpdateStatusDTO{Status: constants.RequestStatusRepaired}, userTechnician)
	require.NoError(t, err)

	board, err := f.queries.GetKanban(ctx, types.RequestFilter{Status: constants.RequestStatusScrap})
	require.NoError(t, err)

	require.Len(t, board[constants.RequestStatusNew], 1)
	assert.Equal(t, newID, board[constants.RequestStatusNew][0].ID)
	require.Len(t, board[constants.RequestStatusInProgress], 1)
	assert.Equal(t, progressID, board[constants.RequestStatusInProgress][0].ID)
	require.Len(t, board[constants.RequestStatusRepaired], 1)
	assert.Equal(t, repairedID, board[constants.RequestStatusRepaired][0].ID)
	assert.Empty(t, board[constants.RequestStatusScrap])
}

func TestGetKanban_RespectsTeamFilter(t *testing.T) {
	f := newFixture()
	createOne(t, f, equipLathe)
	createOne(t, f, equipNoTech)

	board, err := f.queries.GetKanban(context.Background(), types.RequestFilter{TeamID: teamElectric})
	require.NoError(t, err)

	require.Len(t, board[constants.RequestStatusNew], 1)
	assert.Equal(t, teamElectric, board[constants.RequestStatusNew][0].Team.ID)
}

func TestGetKanban_PropagatesStoreError(t *testing.T) {
	f := newFixture()
	f.store.failList = apperrors.NewPersistenceError("список заявок", errors.New("timeout"))

	_, err := f.queries.GetKanban(context.Background(), types.RequestFilter{})
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))
}

func TestGetRequests_CalendarViewOnlyScheduledPreventive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	createOne(t, f, equipLathe)

	unscheduled := correctiveRequest(equipLathe)
	unscheduled.RequestType = constants.RequestTypePreventive
	_, err := f.requests.CreateRequest(ctx, unscheduled, userRequester)
	require.NoError(t, err)

	scheduled := unscheduled
	scheduled.ScheduledDate = null.StringFrom("2025-05-20")
	created, err := f.requests.CreateRequest(ctx, scheduled, userRequester)
	require.NoError(t, err)

	list, total, err := f.queries.GetRequests(ctx, types.RequestFilter{CalendarView: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(1), total)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, constants.RequestTypePreventive, list[0].RequestType)
}

func TestGetRequests_RejectsUnknownEnums(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.queries.GetRequests(ctx, types.RequestFilter{Status: "closed"})
	assert.True(t, apperrors.IsInvalidInput(err))

	_, _, err = f.queries.GetRequests(ctx, types.RequestFilter{RequestType: "urgent"})
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.queries.GetKanban(ctx, types.RequestFilter{RequestType: "urgent"})
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestGetStats_NarrowedByTeam(t *testing.T) {
	f := newFixture()
	createOne(t, f, equipLathe)
	createOne(t, f, equipLathe)
	createOne(t, f, equipNoTech)

	all, err := f.queries.GetStats(context.Background(), types.StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	team, err := f.queries.GetStats(context.Background(), types.StatsFilter{TeamID: teamMechanics})
	require.NoError(t, err)
	assert.Equal(t, int64(2), team.Total)
}

func TestGetRequestLogs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := createOne(t, f, equipLathe)

	_, err := f.requests.UpdateStatus(ctx, id, dto.UpdateStatusDTO{Status: constants.RequestStatusInProgress}, userTechnician)
	require.NoError(t, err)

	logs, err := f.logs.GetRequestLogs(ctx, id)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, constants.LogActionCreated, logs[0].Action)
	assert.Equal(t, "Мария Иванова", logs[0].User.FullName)
	assert.Equal(t, constants.LogActionStatusChanged, logs[1].Action)
	assert.Equal(t, "Иван Петров", logs[1].User.FullName)

	_, err = f.logs.GetRequestLogs(ctx, 424242)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}
