package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"request-console/pkg/constants"
	"request-console/pkg/utils"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("positive_decimal", isPositiveDecimal); err != nil {
		return err
	}
	if err := v.RegisterValidation("naive_datetime", isNaiveDateTime); err != nil {
		return err
	}
	if err := v.RegisterValidation("filter_date", isFilterDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("console_role", isConsoleRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("request_status", isRequestStatus); err != nil {
		return err
	}
	return nil
}

// isPositiveDecimal - число строго больше нуля ("50", "12.5")
func isPositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}

// isNaiveDateTime - значение из datetime-local или ISO без зоны
func isNaiveDateTime(fl validator.FieldLevel) bool {
	_, ok := utils.NormalizeNaive(fl.Field().String())
	return ok
}

// isFilterDate - дата формы фильтра: "2024-05-01" или дата со временем
func isFilterDate(fl validator.FieldLevel) bool {
	_, ok := utils.ExpandFilterDate(fl.Field().String(), "T00:00:00")
	return ok
}

// isConsoleRole - operator, engineer или manager
func isConsoleRole(fl validator.FieldLevel) bool {
	_, ok := constants.RoleCode(fl.Field().String())
	return ok
}

// isRequestStatus - один из известных status_id
func isRequestStatus(fl validator.FieldLevel) bool {
	return constants.IsKnownStatus(int(fl.Field().Int()))
}
