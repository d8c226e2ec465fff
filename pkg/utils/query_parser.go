package utils

import (
	"net/url"
	"strconv"
	"strings"

	"maintenance-system/pkg/types"
)

// ParseUintParam - пустое значение дает 0 без ошибки.
func ParseUintParam(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.ParseUint(value, 10, 64)
}

func parseBoolParam(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

// ParseRequestFilterFromQuery разбирает ?team_id=&status=&request_type=&equipment_id=&assigned_to=&calendar_view=
func ParseRequestFilterFromQuery(values url.Values) (types.RequestFilter, error) {
	var (
		filter types.RequestFilter
		err    error
	)
	if filter.TeamID, err = ParseUintParam(values.Get("team_id")); err != nil {
		return filter, err
	}
	if filter.EquipmentID, err = ParseUintParam(values.Get("equipment_id")); err != nil {
		return filter, err
	}
	if filter.AssignedTo, err = ParseUintParam(values.Get("assigned_to")); err != nil {
		return filter, err
	}
	filter.Status = strings.TrimSpace(values.Get("status"))
	filter.RequestType = strings.TrimSpace(values.Get("request_type"))
	filter.CalendarView = parseBoolParam(values.Get("calendar_view"))
	return filter, nil
}

func ParseStatsFilterFromQuery(values url.Values) (types.StatsFilter, error) {
	var (
		filter types.StatsFilter
		err    error
	)
	if filter.TeamID, err = ParseUintParam(values.Get("team_id")); err != nil {
		return filter, err
	}
	if filter.EquipmentID, err = ParseUintParam(values.Get("equipment_id")); err != nil {
		return filter, err
	}
	return filter, nil
}

func ParseEquipmentFilterFromQuery(values url.Values) (types.EquipmentFilter, error) {
	var (
		filter types.EquipmentFilter
		err    error
	)
	if filter.TeamID, err = ParseUintParam(values.Get("team_id")); err != nil {
		return filter, err
	}
	filter.Status = strings.TrimSpace(values.Get("status"))
	filter.Category = strings.TrimSpace(values.Get("category"))
	return filter, nil
}
