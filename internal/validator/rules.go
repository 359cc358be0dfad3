package validator

import (
	"log"

	"eventix_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers every domain rule on v. A rule that fails to
// register is a startup bug, so it is fatal.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-event-type", enumRule(func(s string) bool { return models.EventType(s).IsValid() }))
	mustRegister("is-event-status", enumRule(func(s string) bool { return models.EventStatus(s).IsValid() }))
	mustRegister("is-seat-status", enumRule(func(s string) bool { return models.SeatStatus(s).IsValid() }))
	mustRegister("is-user-role", enumRule(func(s string) bool { return models.UserRole(s).IsValid() }))
	mustRegister("is-notification-type", enumRule(func(s string) bool { return models.NotificationType(s).IsValid() }))
	mustRegister("is-notification-category", enumRule(func(s string) bool { return models.NotificationCategory(s).IsValid() }))
	mustRegister("is-config-category", enumRule(func(s string) bool { return models.ConfigCategory(s).IsValid() }))
	mustRegister("is-metric", enumRule(models.IsMetricName))
}

// enumRule accepts empty values; 'required' covers presence.
func enumRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return valid(value)
	}
}
