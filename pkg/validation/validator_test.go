package validation

import (
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"

	"maintenance-system/internal/dto"
)

func TestCustomValidator_CreateRequest(t *testing.T) {
	v := New()
	valid := dto.CreateRequestDTO{Subject: "Шум", EquipmentID: 1, RequestType: "preventive"}
	assert.NoError(t, v.Validate(&valid))

	withDate := valid
	withDate.ScheduledDate = null.StringFrom("2025-02-28")
	withDate.Priority = "critical"
	withDate.AssignedTo = null.Uint64From(3)
	assert.NoError(t, v.Validate(&withDate))

	cases := map[string]func(*dto.CreateRequestDTO){
		"тип":       func(d *dto.CreateRequestDTO) { d.RequestType = "urgent" },
		"приоритет": func(d *dto.CreateRequestDTO) { d.Priority = "asap" },
		"дата":      func(d *dto.CreateRequestDTO) { d.ScheduledDate = null.StringFrom("2025-02-30") },
		"тема":      func(d *dto.CreateRequestDTO) { d.Subject = "" },
	}
	for name, mutate := range cases {
		d := valid
		mutate(&d)
		assert.Error(t, v.Validate(&d), name)
	}
}

func TestCustomValidator_UpdateStatus(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&dto.UpdateStatusDTO{Status: "scrap"}))
	assert.NoError(t, v.Validate(&dto.UpdateStatusDTO{Status: "repaired", DurationHours: null.Float64From(0)}))
	assert.Error(t, v.Validate(&dto.UpdateStatusDTO{Status: "closed"}))
	assert.Error(t, v.Validate(&dto.UpdateStatusDTO{Status: "repaired", DurationHours: null.Float64From(-2)}))
	assert.NoError(t, v.Validate(&dto.UpdateStatusDTO{Status: "repaired", DurationHours: null.Float64From(999999.99)}))
	assert.Error(t, v.Validate(&dto.UpdateStatusDTO{Status: "repaired", DurationHours: null.Float64From(1e6)}))
}

func TestCustomValidator_UpdateEquipment(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&dto.UpdateEquipmentDTO{}))
	assert.NoError(t, v.Validate(&dto.UpdateEquipmentDTO{Status: null.StringFrom("scrapped"), MaintenanceTeamID: null.Uint64From(2)}))
	assert.Error(t, v.Validate(&dto.UpdateEquipmentDTO{Status: null.StringFrom("broken")}))
	assert.Error(t, v.Validate(&dto.UpdateEquipmentDTO{SerialNumber: null.StringFrom(strings.Repeat("S", 101))}))
}
