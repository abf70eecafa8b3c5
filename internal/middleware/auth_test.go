package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradematch_backend/internal/auth"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/pkg/contextkeys"
)

type fakeUserRepo struct {
	repositories.UserRepository
	users map[string]*models.User
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tm *auth.TokenManager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{
		func(c *gin.Context) {
			c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
			c.Next()
		},
		AuthMiddleware(tm),
	}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(contextkeys.UserIDKey)))
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "tradematch")
	r := newAuthRouter(tm)

	token, err := tm.GenerateToken("u-1", "sam@example.com", time.Hour)
	require.NoError(t, err)

	rec := doGet(r, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Authorization", "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Authorization", "Bearer nope").Code)
}

func TestAdminMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "tradematch")
	users := &fakeUserRepo{users: map[string]*models.User{
		"admin": {IsAdmin: true, Role: models.UserRoleContractor},
		"plain": {Role: models.UserRoleContractor},
	}}
	r := newAuthRouter(tm, AdminMiddleware(users))

	for userID, want := range map[string]int{
		"admin":   http.StatusOK,
		"plain":   http.StatusForbidden,
		"missing": http.StatusForbidden,
	} {
		token, err := tm.GenerateToken(userID, "", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, want, doGet(r, "Authorization", "Bearer "+token).Code, userID)
	}
}

func TestInternalKeyMiddleware(t *testing.T) {
	newRouter := func(key string) *gin.Engine {
		r := gin.New()
		r.GET("/protected", InternalKeyMiddleware(key), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	r := newRouter("k-123")
	assert.Equal(t, http.StatusOK, doGet(r, "X-Internal-Key", "k-123").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "X-Internal-Key", "k-124").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "", "").Code)

	closed := newRouter("")
	assert.Equal(t, http.StatusUnauthorized, doGet(closed, "X-Internal-Key", "").Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/protected", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doGet(r, "X-Request-ID", "3f1c1f9e-9d67-4c4e-8d6a-0d3b1f0c2a11")
	assert.Equal(t, "3f1c1f9e-9d67-4c4e-8d6a-0d3b1f0c2a11", rec.Header().Get("X-Request-ID"))

	rec = doGet(r, "X-Request-ID", "<script>")
	assert.NotEqual(t, "<script>", rec.Header().Get("X-Request-ID"))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}
