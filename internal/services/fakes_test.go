package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/constants"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"
)

// memStore - хранилище в памяти для тестов сервисов. fakeTxManager снимает копию перед
// транзакцией и восстанавливает ее при ошибке, как откат в Postgres.
type memStore struct {
	requests  map[uint64]entities.MaintenanceRequest
	equipment map[uint64]entities.Equipment
	users     map[uint64]string
	logs      []entities.RequestLog
	counters  map[int]int
	teams     map[uint64]string
	nextID    uint64

	failEquipmentStatus bool
	failLog             bool
	failList            error
}

func newMemStore() *memStore {
	return &memStore{
		requests:  map[uint64]entities.MaintenanceRequest{},
		equipment: map[uint64]entities.Equipment{},
		users:     map[uint64]string{},
		counters:  map[int]int{},
		teams:     map[uint64]string{},
	}
}

func (s *memStore) clone() *memStore {
	c := *s
	c.requests = make(map[uint64]entities.MaintenanceRequest, len(s.requests))
	for k, v := range s.requests {
		c.requests[k] = v
	}
	c.equipment = make(map[uint64]entities.Equipment, len(s.equipment))
	for k, v := range s.equipment {
		c.equipment[k] = v
	}
	c.counters = make(map[int]int, len(s.counters))
	for k, v := range s.counters {
		c.counters[k] = v
	}
	c.logs = append([]entities.RequestLog(nil), s.logs...)
	return &c
}

type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	snapshot := m.store.clone()
	if err := fn(nil); err != nil {
		*m.store = *snapshot
		return err
	}
	return nil
}

// --- заявки ---

type fakeRequestRepo struct {
	store *memStore
}

func (r *fakeRequestRepo) CreateInTx(ctx context.Context, tx pgx.Tx, request *entities.MaintenanceRequest) (uint64, error) {
	for _, existing := range r.store.requests {
		if existing.RequestNumber == request.RequestNumber {
			return 0, apperrors.NewPersistenceError("создание заявки", errors.New("duplicate request_number"))
		}
	}
	r.store.nextID++
	request.ID = r.store.nextID
	if request.CreatedAt == nil {
		created := time.Date(2025, 3, 1, 10, 0, 0, int(request.ID), time.UTC)
		request.CreatedAt = &created
	}
	r.store.requests[request.ID] = *request
	return request.ID, nil
}

func (r *fakeRequestRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	m, ok := r.store.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	return &m, nil
}

func (r *fakeRequestRepo) UpdateStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, completedDate *time.Time, durationHours *float64) error {
	m, ok := r.store.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	m.Status = status
	m.CompletedDate = completedDate
	m.DurationHours = durationHours
	r.store.requests[id] = m
	return nil
}

func (r *fakeRequestRepo) AssignInTx(ctx context.Context, tx pgx.Tx, id uint64, technicianID uint64) error {
	m, ok := r.store.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	m.AssignedTo = &technicianID
	r.store.requests[id] = m
	return nil
}

func (r *fakeRequestRepo) view(m entities.MaintenanceRequest, today time.Time) entities.MaintenanceRequestView {
	v := entities.MaintenanceRequestView{MaintenanceRequest: m}
	if e, ok := r.store.equipment[m.EquipmentID]; ok {
		v.EquipmentName = e.Name
		serial := e.SerialNumber
		v.SerialNumber = &serial
	}
	v.TeamName = r.store.teams[m.MaintenanceTeamID]
	if name, ok := r.store.users[m.RequestedBy]; ok {
		v.RequesterName = &name
	}
	if m.AssignedTo != nil {
		if name, ok := r.store.users[*m.AssignedTo]; ok {
			v.TechnicianName = &name
		}
	}
	v.IsOverdue = m.ScheduledDate != nil && m.ScheduledDate.Before(today) && m.Status != constants.RequestStatusRepaired
	return v
}

func (r *fakeRequestRepo) FindRequest(ctx context.Context, id uint64) (*entities.MaintenanceRequestView, error) {
	m, ok := r.store.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	v := r.view(m, time.Now())
	return &v, nil
}

func (r *fakeRequestRepo) GetRequests(ctx context.Context, filter types.RequestFilter) ([]entities.MaintenanceRequestView, error) {
	if r.store.failList != nil {
		return nil, r.store.failList
	}
	list := make([]entities.MaintenanceRequestView, 0)
	for _, m := range r.store.requests {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.TeamID != 0 && m.MaintenanceTeamID != filter.TeamID {
			continue
		}
		if filter.RequestType != "" && m.RequestType != filter.RequestType {
			continue
		}
		if filter.CalendarView && (m.RequestType != constants.RequestTypePreventive || m.ScheduledDate == nil) {
			continue
		}
		list = append(list, r.view(m, time.Now()))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeRequestRepo) GetStats(ctx context.Context, filter types.StatsFilter) (*types.RequestStats, error) {
	stats := &types.RequestStats{}
	for _, m := range r.store.requests {
		if filter.TeamID != 0 && m.MaintenanceTeamID != filter.TeamID {
			continue
		}
		stats.Total++
	}
	return stats, nil
}

// --- оборудование ---

type fakeEquipmentRepo struct {
	store *memStore
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	e, ok := r.store.equipment[id]
	if !ok {
		return nil, apperrors.ErrEquipmentNotFound
	}
	return &e, nil
}

func (r *fakeEquipmentRepo) FindEquipmentInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.FindEquipment(ctx, id)
}

func (r *fakeEquipmentRepo) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	if r.store.failEquipmentStatus {
		return apperrors.NewPersistenceError("смена статуса оборудования", errors.New("connection reset"))
	}
	e, ok := r.store.equipment[id]
	if !ok {
		return apperrors.ErrEquipmentNotFound
	}
	e.Status = status
	r.store.equipment[id] = e
	return nil
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.EquipmentFilter) ([]entities.Equipment, error) {
	list := make([]entities.Equipment, 0)
	for _, e := range r.store.equipment {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment *entities.Equipment) (uint64, error) {
	r.store.nextID++
	equipment.ID = r.store.nextID
	r.store.equipment[equipment.ID] = *equipment
	return equipment.ID, nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, equipment *entities.Equipment) error {
	if _, ok := r.store.equipment[equipment.ID]; !ok {
		return apperrors.ErrEquipmentNotFound
	}
	r.store.equipment[equipment.ID] = *equipment
	return nil
}

func (r *fakeEquipmentRepo) SerialExists(ctx context.Context, serial string, excludeID uint64) (bool, error) {
	for _, e := range r.store.equipment {
		if e.SerialNumber == serial && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEquipmentRepo) GetCategories(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, e := range r.store.equipment {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeEquipmentRepo) CountOpenRequests(ctx context.Context, equipmentID uint64) (int64, error) {
	var n int64
	for _, m := range r.store.requests {
		if m.EquipmentID == equipmentID && !constants.IsTerminalStatus(m.Status) {
			n++
		}
	}
	return n, nil
}

// --- пользователи, журнал, счетчик ---

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) ExistsInTx(ctx context.Context, tx pgx.Tx, id uint64) (bool, error) {
	_, ok := r.store.users[id]
	return ok, nil
}

type fakeLogRepo struct {
	store *memStore
}

func (r *fakeLogRepo) CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.RequestLog) error {
	if r.store.failLog {
		return apperrors.NewPersistenceError("запись журнала", errors.New("disk full"))
	}
	entry.ID = uint64(len(r.store.logs) + 1)
	entry.CreatedAt = time.Date(2025, 3, 1, 12, 0, len(r.store.logs), 0, time.UTC)
	r.store.logs = append(r.store.logs, *entry)
	return nil
}

func (r *fakeLogRepo) FindByRequestID(ctx context.Context, requestID uint64) ([]repositories.RequestLogItem, error) {
	out := make([]repositories.RequestLogItem, 0)
	for _, l := range r.store.logs {
		if l.RequestID != requestID {
			continue
		}
		item := repositories.RequestLogItem{RequestLog: l}
		if name, ok := r.store.users[l.UserID]; ok {
			item.ActorName = &name
		}
		out = append(out, item)
	}
	return out, nil
}

type fakeNumberRepo struct {
	store *memStore
}

func (r *fakeNumberRepo) NextSequenceInTx(ctx context.Context, tx pgx.Tx, year int) (int, error) {
	r.store.counters[year]++
	return r.store.counters[year], nil
}

// --- фикстуры ---

const (
	teamMechanics   uint64 = 10
	teamElectric    uint64 = 20
	userRequester   uint64 = 100
	userTechnician  uint64 = 101
	userTechnician2 uint64 = 102
	equipLathe      uint64 = 500
	equipNoTech     uint64 = 501
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func seededStore() *memStore {
	s := newMemStore()
	s.nextID = 1000
	s.teams[teamMechanics] = "Механики"
	s.teams[teamElectric] = "Электрики"
	s.users[userRequester] = "Мария Иванова"
	s.users[userTechnician] = "Иван Петров"
	s.users[userTechnician2] = "Сергей Орлов"

	tech := userTechnician
	s.equipment[equipLathe] = entities.Equipment{
		ID: equipLathe, Name: "Токарный станок", SerialNumber: "LTH-0001", Category: "Станки",
		MaintenanceTeamID: teamMechanics, DefaultTechnicianID: &tech, Status: constants.EquipmentStatusActive,
	}
	s.equipment[equipNoTech] = entities.Equipment{
		ID: equipNoTech, Name: "Распределительный щит", SerialNumber: "ELP-0004", Category: "Электрика",
		MaintenanceTeamID: teamElectric, Status: constants.EquipmentStatusActive,
	}
	return s
}

type serviceFixture struct {
	store    *memStore
	requests *RequestService
	queries  *RequestQueryService
	logs     *RequestLogService
	equip    *EquipmentService
}

func newFixture() *serviceFixture {
	return newFixtureWithClock(func() time.Time { return fixedNow })
}

func newFixtureWithClock(now func() time.Time) *serviceFixture {
	store := seededStore()
	requestRepo := &fakeRequestRepo{store: store}
	equipmentRepo := &fakeEquipmentRepo{store: store}
	logRepo := &fakeLogRepo{store: store}
	logger := zap.NewNop()

	return &serviceFixture{
		store: store,
		requests: NewRequestService(
			&fakeTxManager{store: store}, requestRepo, equipmentRepo, &fakeUserRepo{store: store}, logRepo,
			NewRequestNumberService(&fakeNumberRepo{store: store}), logger,
		).WithClock(now),
		queries: NewRequestQueryService(requestRepo, logger),
		logs:    NewRequestLogService(requestRepo, logRepo, logger),
		equip:   NewEquipmentService(equipmentRepo, logger),
	}
}

func (f *serviceFixture) logsFor(requestID uint64) []entities.RequestLog {
	out := make([]entities.RequestLog, 0)
	for _, l := range f.store.logs {
		if l.RequestID == requestID {
			out = append(out, l)
		}
	}
	return out
}

func describeLog(l entities.RequestLog) string {
	deref := func(p *string) string {
		if p == nil {
			return "<nil>"
		}
		return *p
	}
	return fmt.Sprintf("%s:%s->%s", l.Action, deref(l.OldValue), deref(l.NewValue))
}
