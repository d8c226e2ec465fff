package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"maintenance-system/pkg/constants"
)

// IsoDateLayout - формат даты в запросах (scheduled_date).
const IsoDateLayout = "2006-01-02"

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("request_type", oneOfFunc(constants.RequestTypes)); err != nil {
		return err
	}
	if err := v.RegisterValidation("request_priority", oneOfFunc(constants.Priorities)); err != nil {
		return err
	}
	if err := v.RegisterValidation("request_status", oneOfFunc(constants.KanbanStatuses)); err != nil {
		return err
	}
	if err := v.RegisterValidation("equipment_status", oneOfFunc(constants.EquipmentStatuses)); err != nil {
		return err
	}
	if err := v.RegisterValidation("iso_date", isIsoDate); err != nil {
		return err
	}
	return nil
}

func oneOfFunc(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	}
}

// isIsoDate - дата вида 2025-03-31
func isIsoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(IsoDateLayout, fl.Field().String())
	return err == nil
}
