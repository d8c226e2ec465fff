package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"maintenance-system/internal/dto"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"
	"maintenance-system/pkg/validation"
)

type fakeRequestService struct {
	createErr error
	gotCreate dto.CreateRequestDTO
	gotUser   uint64
	statusErr error
	gotStatus dto.UpdateStatusDTO
	assignErr error
	gotTechID uint64
	findErr   error
}

func (s *fakeRequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO, requestedBy uint64) (*dto.CreatedRequestDTO, error) {
	s.gotCreate, s.gotUser = data, requestedBy
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &dto.CreatedRequestDTO{ID: 1, RequestNumber: "REQ-2025-0001"}, nil
}

func (s *fakeRequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return &dto.RequestDTO{ID: id, RequestNumber: "REQ-2025-0001"}, nil
}

func (s *fakeRequestService) UpdateStatus(ctx context.Context, id uint64, data dto.UpdateStatusDTO, actorID uint64) (*dto.StatusChangedDTO, error) {
	s.gotStatus, s.gotUser = data, actorID
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &dto.StatusChangedDTO{ID: id, OldStatus: constants.RequestStatusNew, NewStatus: data.Status}, nil
}

func (s *fakeRequestService) AssignTechnician(ctx context.Context, id uint64, technicianID uint64, actorID uint64) (*dto.TechnicianAssignedDTO, error) {
	s.gotTechID, s.gotUser = technicianID, actorID
	if s.assignErr != nil {
		return nil, s.assignErr
	}
	return &dto.TechnicianAssignedDTO{ID: id, TechnicianID: technicianID}, nil
}

type fakeQueryService struct {
	list      []dto.RequestDTO
	gotFilter types.RequestFilter
	err       error
}

func (s *fakeQueryService) GetRequests(ctx context.Context, filter types.RequestFilter) ([]dto.RequestDTO, uint64, error) {
	s.gotFilter = filter
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.list, uint64(len(s.list)), nil
}

func (s *fakeQueryService) GetKanban(ctx context.Context, filter types.RequestFilter) (dto.KanbanDTO, error) {
	board := dto.KanbanDTO{}
	for _, status := range constants.KanbanStatuses {
		board[status] = []dto.RequestDTO{}
	}
	return board, s.err
}

func (s *fakeQueryService) GetStats(ctx context.Context, filter types.StatsFilter) (*types.RequestStats, error) {
	return &types.RequestStats{Total: 5, OverdueCount: 2}, s.err
}

type fakeLogService struct{}

func (fakeLogService) GetRequestLogs(ctx context.Context, requestID uint64) ([]dto.RequestLogDTO, error) {
	if requestID == 404 {
		return nil, apperrors.ErrRequestNotFound
	}
	return []dto.RequestLogDTO{{ID: 1, RequestID: requestID, Action: constants.LogActionCreated}}, nil
}

type envelope struct {
	Status     bool            `json:"status"`
	Body       json.RawMessage `json:"body"`
	Message    string          `json:"message"`
	TotalCount *uint64         `json:"total_count"`
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

// call выполняет хендлер; userID = 0 - запрос без аутентифицированного пользователя.
func call(t *testing.T, e *echo.Echo, h echo.HandlerFunc, method, target, body string, userID uint64, params ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != 0 {
		req = req.WithContext(utils.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		c.SetParamNames("id")
		c.SetParamValues(params...)
	}

	require.NoError(t, h(c))

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func newRequestController(rs *fakeRequestService, qs *fakeQueryService) *RequestController {
	return NewRequestController(rs, qs, fakeLogService{}, zap.NewNop())
}

func TestRequestController_Create(t *testing.T) {
	e := newTestEcho()
	rs := &fakeRequestService{}
	ctrl := newRequestController(rs, &fakeQueryService{})

	rec, env := call(t, e, ctrl.CreateRequest, http.MethodPost, "/api/requests",
		`{"subject":"Течь масла","equipment_id":5,"request_type":"corrective","scheduled_date":"2025-04-01"}`, 77)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Status)
	assert.JSONEq(t, `{"id":1,"request_number":"REQ-2025-0001"}`, string(env.Body))
	assert.Equal(t, uint64(77), rs.gotUser)
	assert.Equal(t, uint64(5), rs.gotCreate.EquipmentID)
	assert.Equal(t, "2025-04-01", rs.gotCreate.ScheduledDate.String)
}

func TestRequestController_CreateRejectsInvalidBody(t *testing.T) {
	e := newTestEcho()
	ctrl := newRequestController(&fakeRequestService{}, &fakeQueryService{})

	cases := map[string]string{
		"нет темы":         `{"equipment_id":5,"request_type":"corrective"}`,
		"плохой тип":       `{"subject":"x","equipment_id":5,"request_type":"urgent"}`,
		"плохой приоритет": `{"subject":"x","equipment_id":5,"request_type":"corrective","priority":"asap"}`,
		"плохая дата":      `{"subject":"x","equipment_id":5,"request_type":"corrective","scheduled_date":"01.04.2025"}`,
		"не JSON":          `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, env := call(t, e, ctrl.CreateRequest, http.MethodPost, "/api/requests", body, 77)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Status)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestRequestController_CreateWithoutUser(t *testing.T) {
	e := newTestEcho()
	ctrl := newRequestController(&fakeRequestService{}, &fakeQueryService{})

	rec, env := call(t, e, ctrl.CreateRequest, http.MethodPost, "/api/requests",
		`{"subject":"x","equipment_id":5,"request_type":"corrective"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Status)
}

func TestRequestController_ErrorMapping(t *testing.T) {
	e := newTestEcho()
	body := `{"subject":"x","equipment_id":5,"request_type":"corrective"}`

	cases := []struct {
		err  error
		code int
	}{
		{apperrors.ErrEquipmentNotFound, http.StatusNotFound},
		{apperrors.NewInvalidInputError("плохо"), http.StatusBadRequest},
		{apperrors.NewPersistenceError("вставка", errors.New("connection refused")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		ctrl := newRequestController(&fakeRequestService{createErr: tc.err}, &fakeQueryService{})
		rec, env := call(t, e, ctrl.CreateRequest, http.MethodPost, "/api/requests", body, 77)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.False(t, env.Status)
		assert.NotContains(t, env.Message, "connection refused", "детали хранилища не уходят клиенту")
	}
}

func TestRequestController_UpdateStatus(t *testing.T) {
	e := newTestEcho()
	rs := &fakeRequestService{}
	ctrl := newRequestController(rs, &fakeQueryService{})

	rec, env := call(t, e, ctrl.UpdateStatus, http.MethodPatch, "/api/requests/3/status",
		`{"status":"repaired","duration_hours":3.5}`, 9, "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, constants.RequestStatusRepaired, rs.gotStatus.Status)
	assert.True(t, rs.gotStatus.DurationHours.Valid)
	assert.Equal(t, 3.5, rs.gotStatus.DurationHours.Float64)
	assert.Equal(t, uint64(9), rs.gotUser)

	rec, _ = call(t, e, ctrl.UpdateStatus, http.MethodPatch, "/api/requests/3/status", `{"status":"closed"}`, 9, "3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, e, ctrl.UpdateStatus, http.MethodPatch, "/api/requests/abc/status", `{"status":"new"}`, 9, "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rs.statusErr = apperrors.ErrRequestNotFound
	rec, env = call(t, e, ctrl.UpdateStatus, http.MethodPatch, "/api/requests/3/status", `{"status":"new"}`, 9, "3")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Заявка не найдена", env.Message)
}

func TestRequestController_Assign(t *testing.T) {
	e := newTestEcho()
	rs := &fakeRequestService{}
	ctrl := newRequestController(rs, &fakeQueryService{})

	rec, _ := call(t, e, ctrl.AssignTechnician, http.MethodPatch, "/api/requests/3/assign", `{"technician_id":12}`, 9, "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(12), rs.gotTechID)

	rec, _ = call(t, e, ctrl.AssignTechnician, http.MethodPatch, "/api/requests/3/assign", `{}`, 9, "3")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rs.assignErr = apperrors.ErrTechnicianNotFound
	rec, env := call(t, e, ctrl.AssignTechnician, http.MethodPatch, "/api/requests/3/assign", `{"technician_id":12}`, 9, "3")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Техник не найден", env.Message)
}

func TestRequestController_ListParsesFilters(t *testing.T) {
	e := newTestEcho()
	qs := &fakeQueryService{list: []dto.RequestDTO{{ID: 1}, {ID: 2}}}
	ctrl := newRequestController(&fakeRequestService{}, qs)

	rec, env := call(t, e, ctrl.GetRequests, http.MethodGet,
		"/api/requests?team_id=4&status=new&request_type=preventive&equipment_id=8&assigned_to=2&calendar_view=true", "", 9)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.TotalCount)
	assert.Equal(t, uint64(2), *env.TotalCount)
	assert.Equal(t, types.RequestFilter{
		TeamID: 4, Status: "new", RequestType: "preventive", EquipmentID: 8, AssignedTo: 2, CalendarView: true,
	}, qs.gotFilter)

	rec, _ = call(t, e, ctrl.GetRequests, http.MethodGet, "/api/requests?team_id=abc", "", 9)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestController_ExportXLSX(t *testing.T) {
	e := newTestEcho()
	hours := 2.5
	qs := &fakeQueryService{list: []dto.RequestDTO{{
		ID: 1, RequestNumber: "REQ-2025-0001", Subject: "Замена ремня",
		Equipment: dto.ShortEquipmentDTO{Name: "Пресс"}, Status: constants.RequestStatusRepaired,
		DurationHours: &hours, AssignedTo: &dto.ShortUserDTO{FullName: "Иван Петров"},
	}}}
	ctrl := newRequestController(&fakeRequestService{}, qs)

	rec, _ := call(t, e, ctrl.GetRequests, http.MethodGet, "/api/requests?format=xlsx", "", 9)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment; filename=requests_")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders[0], rows[0][0])
	assert.Equal(t, "REQ-2025-0001", rows[1][0])
	assert.Equal(t, "Пресс", rows[1][2])
	assert.Equal(t, "2.50", rows[1][11])
	assert.Equal(t, "Иван Петров", rows[1][13])
}

func TestRequestController_KanbanAndStats(t *testing.T) {
	e := newTestEcho()
	ctrl := newRequestController(&fakeRequestService{}, &fakeQueryService{})

	rec, env := call(t, e, ctrl.GetKanban, http.MethodGet, "/api/requests/kanban", "", 9)
	require.Equal(t, http.StatusOK, rec.Code)
	var board map[string][]dto.RequestDTO
	require.NoError(t, json.Unmarshal(env.Body, &board))
	assert.Len(t, board, 4)

	rec, env = call(t, e, ctrl.GetStats, http.MethodGet, "/api/requests/stats?team_id=1", "", 9)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats types.RequestStats
	require.NoError(t, json.Unmarshal(env.Body, &stats))
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, int64(2), stats.OverdueCount)
}

func TestRequestController_Logs(t *testing.T) {
	e := newTestEcho()
	ctrl := newRequestController(&fakeRequestService{}, &fakeQueryService{})

	rec, env := call(t, e, ctrl.GetRequestLogs, http.MethodGet, "/api/requests/3/logs", "", 9, "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.TotalCount)
	assert.Equal(t, uint64(1), *env.TotalCount)

	rec, _ = call(t, e, ctrl.GetRequestLogs, http.MethodGet, "/api/requests/404/logs", "", 9, "404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealthController(t *testing.T) {
	e := newTestEcho()

	rec, env := call(t, e, NewHealthController(fakePinger{}, zap.NewNop()).Health, http.MethodGet, "/api/health", "", 0)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)

	rec, env = call(t, e, NewHealthController(fakePinger{err: errors.New("down")}, zap.NewNop()).Health, http.MethodGet, "/api/health", "", 0)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, env.Status)
}
