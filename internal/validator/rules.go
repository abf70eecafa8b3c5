package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"tradematch_backend/internal/models"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/utils"
)

// registerCustomRules регистрирует кастомные теги валидации.
// Ошибка регистрации - ошибка конфигурации, поэтому возвращается наверх.
func registerCustomRules(v *validator.Validate) error {
	custom := map[string]validator.Func{
		"is-verification-status": validateVerificationStatus,
		"is-job-status":          validateJobStatus,
		"is-user-role":           validateUserRole,
		"abn":                    validateABN,
		"hhmm":                   validateClock,
		"trade":                  validateTrade,
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation tag %q: %w", tag, err)
		}
	}
	return nil
}

// Пустые значения пропускаются: для них есть 'required'

func validateVerificationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseVerificationStatus(value)
	return ok
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseJobStatus(value)
	return ok
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := models.ParseUserRole(value)
	return ok
}

func validateABN(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return utils.IsValidABN(value)
}

func validateClock(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, ok := rules.ParseClock(value)
	return ok
}

func validateTrade(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := utils.CanonicalTrade(value)
	return ok
}
