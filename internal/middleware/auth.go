package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tradematch_backend/internal/auth"
	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/rules"
	"tradematch_backend/internal/telemetry"
	"tradematch_backend/pkg/apperrors"
	"tradematch_backend/pkg/contextkeys"
)

// TokenParser - то, что нужно middleware от auth.TokenManager
type TokenParser interface {
	ParseToken(tokenStr string) (*auth.Claims, error)
}

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			logger.CtxDebug(c.Request.Context(), "token rejected", "error", err.Error())
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(string(contextkeys.UserIDKey), claims.UserID())
		c.Set(string(contextkeys.UserEmailKey), claims.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID()))
		c.Next()
	}
}

// AdminMiddleware загружает пользователя и пропускает только администраторов.
// Признак администратора берется из записи пользователя, не из токена.
// Должен стоять после AuthMiddleware и DBMiddleware.
func AdminMiddleware(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(string(contextkeys.UserIDKey))
		if userID == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}

		db, ok := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB)
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("db in context has incorrect type")))
			return
		}

		user, err := users.FindByID(db, userID)
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			apperrors.HandleError(c, apperrors.InternalError(err))
			return
		}

		allowed := rules.IsAdmin(user)
		logger.DecisionLog("is_admin", userID, allowed, "path", c.Request.URL.Path)
		if !allowed {
			telemetry.RuleDenials.WithLabelValues("is_admin").Inc()
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}

		c.Set(string(contextkeys.CurrentUserKey), user)
		c.Next()
	}
}

// InternalKeyMiddleware защищает служебные маршруты общим ключом
// в заголовке X-Internal-Key. Пустой ключ в конфиге закрывает маршрут.
func InternalKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Internal-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid internal key"))
			return
		}
		c.Next()
	}
}
