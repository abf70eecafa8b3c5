package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому в gin.Context хранится *gorm.DB (пул или транзакция)
	DBContextKey = contextKey("db")

	// UserIDKey - id аутентифицированного пользователя (claim sub)
	UserIDKey = contextKey("userID")

	// UserEmailKey - email из токена, только для логов
	UserEmailKey = contextKey("userEmail")

	// CurrentUserKey - *models.User, загруженный AdminMiddleware
	CurrentUserKey = contextKey("currentUser")
)
