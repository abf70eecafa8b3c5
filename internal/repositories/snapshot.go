package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"tradematch_backend/internal/models"
	"tradematch_backend/internal/utils"
)

// ErrInvalidSnapshot - снимок пользователя от провайдера нельзя привести к модели
var ErrInvalidSnapshot = errors.New("invalid user snapshot")

// Провайдер отдает строки то в camelCase, то в snake_case.
// Первый найденный ключ побеждает.
var snapshotKeys = map[string][]string{
	"id":                         {"id", "userId", "user_id"},
	"email":                      {"email"},
	"display_name":               {"displayName", "display_name", "name"},
	"role":                       {"role"},
	"is_admin":                   {"isAdmin", "is_admin"},
	"abn":                        {"abn", "abnNumber", "abn_number"},
	"abn_status":                 {"abnStatus", "abn_status"},
	"abn_verified_at":            {"abnVerifiedAt", "abn_verified_at"},
	"abn_verified_by":            {"abnVerifiedBy", "abn_verified_by"},
	"verified":                   {"isVerified", "is_verified", "verified"},
	"plan_id":                    {"planId", "plan_id", "plan"},
	"subscription_status":        {"subscriptionStatus", "subscription_status"},
	"additional_trades_unlocked": {"additionalTradesUnlocked", "additional_trades_unlocked"},
	"primary_trade":              {"primaryTrade", "primary_trade"},
	"website":                    {"website", "websiteUrl", "website_url"},
	"additional_trades":          {"additionalTrades", "additional_trades"},
}

// Колонки abn_* пишутся только вместе: решение проверки нельзя собрать
// наполовину из снимка и наполовину из локальной записи.
var verificationColumns = []string{
	"abn_status",
	"abn_verified",
	"abn_verified_at",
	"abn_verified_by",
	"abn_reviewed_at",
	"abn_reviewed_by",
}

// snapshotColumns - какие колонки обновляет каждое поле снимка, в порядке записи
var snapshotColumns = []struct {
	field   string
	columns []string
}{
	{"email", []string{"email"}},
	{"display_name", []string{"display_name"}},
	{"role", []string{"role"}},
	{"is_admin", []string{"is_admin"}},
	{"abn", []string{"abn_number"}},
	{"abn_status", verificationColumns},
	{"verified", verificationColumns},
	{"abn_verified_at", verificationColumns},
	{"abn_verified_by", verificationColumns},
	{"plan_id", []string{"plan_id"}},
	{"subscription_status", []string{"subscription_status"}},
	{"additional_trades_unlocked", []string{"additional_trades_unlocked"}},
	{"primary_trade", []string{"primary_trade"}},
	{"website", []string{"website"}},
	{"additional_trades", []string{"additional_trades"}},
}

func lookup(raw map[string]any, field string) (any, bool) {
	for _, key := range snapshotKeys[field] {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(raw map[string]any, field string) string {
	v, ok := lookup(raw, field)
	if !ok {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func lookupBool(raw map[string]any, field string) bool {
	v, ok := lookup(raw, field)
	if !ok {
		return false
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// NormalizeUserSnapshot приводит строку пользователя от провайдера к models.User.
// Роль разбирается здесь и больше нигде. Неизвестный статус проверки
// становится unverified, неизвестный план - FREE.
func NormalizeUserSnapshot(raw map[string]any) (*models.User, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidSnapshot)
	}

	id := lookupString(raw, "id")
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSnapshot)
	}

	role, ok := models.ParseUserRole(lookupString(raw, "role"))
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidSnapshot, lookupString(raw, "role"))
	}

	user := &models.User{
		Email:                    strings.ToLower(lookupString(raw, "email")),
		DisplayName:              lookupString(raw, "display_name"),
		Role:                     role,
		IsAdmin:                  lookupBool(raw, "is_admin"),
		AdditionalTradesUnlocked: lookupBool(raw, "additional_trades_unlocked"),
		PrimaryTrade:             lookupString(raw, "primary_trade"),
		Website:                  utils.SanitizeURL(lookupString(raw, "website")),
		PlanID:                   models.PlanFree,
		SubscriptionStatus:       models.ParseSubscriptionStatus(lookupString(raw, "subscription_status")),
	}
	user.ID = id

	if plan, ok := models.ParsePlanID(lookupString(raw, "plan_id")); ok {
		user.PlanID = plan
	}

	if v, ok := lookup(raw, "additional_trades"); ok {
		trades, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: additional trades: %v", ErrInvalidSnapshot, err)
		}
		user.AdditionalTrades = trades
	}

	verification, err := normalizeVerification(raw)
	if err != nil {
		return nil, err
	}
	user.Verification = verification

	return user, nil
}

// SnapshotColumns возвращает колонки, которые снимок действительно несет.
// Отсутствующий ключ не затирает локальное состояние: решение администратора,
// флаг is_admin и план из платежного вебхука.
func SnapshotColumns(raw map[string]any) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, entry := range snapshotColumns {
		if _, ok := lookup(raw, entry.field); !ok {
			continue
		}
		for _, col := range entry.columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	return columns
}

func normalizeVerification(raw map[string]any) (models.Verification, error) {
	v := models.Verification{
		Number:   lookupString(raw, "abn"),
		Status:   models.VerificationUnverified,
		Verified: lookupBool(raw, "verified"),
	}

	if status, ok := models.ParseVerificationStatus(lookupString(raw, "abn_status")); ok {
		v.Status = status
	}

	if rawAt, ok := lookup(raw, "abn_verified_at"); ok {
		if s, isString := rawAt.(string); !isString || strings.TrimSpace(s) != "" {
			at, err := cast.ToTimeE(rawAt)
			if err != nil {
				return v, fmt.Errorf("%w: abn verified at: %v", ErrInvalidSnapshot, err)
			}
			at = at.UTC()
			v.VerifiedAt = &at
		}
	}

	if by := lookupString(raw, "abn_verified_by"); by != "" {
		v.VerifiedBy = &by
	}

	return v, nil
}
