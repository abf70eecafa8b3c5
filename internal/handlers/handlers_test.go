package handlers

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradematch_backend/internal/auth"
	"tradematch_backend/internal/middleware"
	"tradematch_backend/internal/models"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/services"
	"tradematch_backend/internal/services/dto"
	"tradematch_backend/internal/validator"
	"tradematch_backend/pkg/apperrors"
	"tradematch_backend/pkg/contextkeys"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fakes ---

type fakeUsers struct {
	repositories.UserRepository
	users map[string]*models.User
}

func (f *fakeUsers) FindByID(_ *gorm.DB, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrUserNotFound
}

type fakeVerification struct {
	services.VerificationService
	calls     int
	lastAdmin string
	lastUser  string
	lastState string
	err       error
}

func (f *fakeVerification) DecideVerification(_ context.Context, _ *gorm.DB, adminID, userID, status string) error {
	f.calls++
	f.lastAdmin, f.lastUser, f.lastState = adminID, userID, status
	return f.err
}

type fakeJobs struct {
	services.JobService
	preview *dto.CancellationPreviewResponse
	err     error
}

func (f *fakeJobs) ListJobs(_ context.Context, _ *gorm.DB, query *dto.ListJobsQuery) (*dto.JobListResponse, error) {
	return &dto.JobListResponse{Jobs: []*dto.JobResponse{{ID: "job-1", Trade: query.Trade}}, Total: 1, Page: 1, PageSize: 20, TotalPages: 1}, nil
}

func (f *fakeJobs) ListJobsNear(_ context.Context, _ *gorm.DB, userID string, query *dto.NearbyJobsQuery) (*dto.JobListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.JobListResponse{Jobs: []*dto.JobResponse{{ID: "job-1", Location: query.Location, ContractorID: userID}}, Total: 1, Page: 1, PageSize: 20, TotalPages: 1}, nil
}

func (f *fakeJobs) CancellationPreview(_ context.Context, _ *gorm.DB, _, jobID string) (*dto.CancellationPreviewResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.preview, nil
}

type fakeSubscriptions struct {
	services.SubscriptionService
	applied []*dto.PaymentWebhookEvent
}

func (f *fakeSubscriptions) VerifySignature(payload []byte, signature string) error {
	if signature != sign(payload) {
		return apperrors.ErrBadSignature
	}
	return nil
}

func (f *fakeSubscriptions) ApplyPaymentEvent(_ context.Context, _ *gorm.DB, event *dto.PaymentWebhookEvent) error {
	f.applied = append(f.applied, event)
	return nil
}

// --- helpers ---

func sign(payload []byte) string {
	return hex.EncodeToString(services.SignPayload([]byte("whsec"), payload))
}

const testSecret = "handler-test-secret"

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenManager
}

type routeRegistrar interface {
	RegisterRoutes(r *gin.RouterGroup, guards Guards)
}

func newTestEnv(t *testing.T, users map[string]*models.User, hs ...routeRegistrar) *testEnv {
	t.Helper()
	tokens := auth.NewTokenManager(testSecret, "tradematch-test")
	guards := Guards{
		Auth:     middleware.AuthMiddleware(tokens),
		Admin:    middleware.AdminMiddleware(&fakeUsers{users: users}),
		Internal: middleware.InternalKeyMiddleware("internal-key"),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
		c.Next()
	})
	api := r.Group("/api/v1")
	for _, h := range hs {
		h.RegisterRoutes(api, guards)
	}
	return &testEnv{router: r, tokens: tokens}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := e.tokens.GenerateToken(userID, userID+"@example.com", time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(method, path, token string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func adminUsers() map[string]*models.User {
	return map[string]*models.User{
		"admin-1": {BaseModel: models.BaseModel{ID: "admin-1"}, IsAdmin: true},
		"user-1":  {BaseModel: models.BaseModel{ID: "user-1"}},
	}
}

// --- verification decision ---

func TestDecideVerification_UpdatesStatus(t *testing.T) {
	verification := &fakeVerification{}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, adminUsers(), NewVerificationHandler(base, verification))

	rec := env.do(http.MethodPut, "/api/v1/admin/users/user-9/verification", env.token(t, "admin-1"),
		[]byte(`{"status":"verified"}`), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Verification status updated"}`, rec.Body.String())
	assert.Equal(t, 1, verification.calls)
	assert.Equal(t, "admin-1", verification.lastAdmin)
	assert.Equal(t, "user-9", verification.lastUser)
	assert.Equal(t, "verified", verification.lastState)
}

func TestDecideVerification_RejectsUnknownStatus(t *testing.T) {
	verification := &fakeVerification{}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, adminUsers(), NewVerificationHandler(base, verification))

	for _, body := range []string{`{"status":"approved"}`, `{"status":""}`, `{}`, `not json`} {
		rec := env.do(http.MethodPut, "/api/v1/admin/users/user-9/verification", env.token(t, "admin-1"),
			[]byte(body), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Zero(t, verification.calls)
}

func TestDecideVerification_RequiresAdmin(t *testing.T) {
	verification := &fakeVerification{}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, adminUsers(), NewVerificationHandler(base, verification))
	body := []byte(`{"status":"verified"}`)

	rec := env.do(http.MethodPut, "/api/v1/admin/users/user-9/verification", "", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPut, "/api/v1/admin/users/user-9/verification", env.token(t, "user-1"), body, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperrors.CodeForbidden), errorCode(t, rec))

	// токен валиден, но пользователя нет в базе
	rec = env.do(http.MethodPut, "/api/v1/admin/users/user-9/verification", env.token(t, "ghost"), body, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Zero(t, verification.calls)
}

func TestDecideVerification_PropagatesServiceError(t *testing.T) {
	verification := &fakeVerification{err: apperrors.ErrUserNotFound}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, adminUsers(), NewVerificationHandler(base, verification))

	rec := env.do(http.MethodPut, "/api/v1/admin/users/missing/verification", env.token(t, "admin-1"),
		[]byte(`{"status":"rejected"}`), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(apperrors.CodeNotFound), errorCode(t, rec))
}

// --- jobs ---

func TestListJobs_IsPublic(t *testing.T) {
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, nil, NewJobHandler(base, &fakeJobs{}))

	rec := env.do(http.MethodGet, "/api/v1/jobs?trade=electrician", "", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.JobListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "electrician", resp.Jobs[0].Trade)
}

func TestListJobs_RejectsUnknownStatusFilter(t *testing.T) {
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, nil, NewJobHandler(base, &fakeJobs{}))

	rec := env.do(http.MethodGet, "/api/v1/jobs?status=archived", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(apperrors.CodeValidationFailed), errorCode(t, rec))
}

func TestListJobsNear(t *testing.T) {
	jobs := &fakeJobs{}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, nil, NewJobHandler(base, jobs))

	rec := env.do(http.MethodGet, "/api/v1/jobs/nearby?location=Parramatta", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/jobs/nearby", env.token(t, "user-1"), nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/jobs/nearby?location=Parramatta&trade=plumber", env.token(t, "user-1"), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.JobListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "Parramatta", resp.Jobs[0].Location)

	jobs.err = apperrors.ErrCapabilityDenied
	rec = env.do(http.MethodGet, "/api/v1/jobs/nearby?location=Parramatta", env.token(t, "user-1"), nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperrors.CodeCapabilityDenied), errorCode(t, rec))
}

func TestCancellationPreview(t *testing.T) {
	hours := 5.5
	jobs := &fakeJobs{preview: &dto.CancellationPreviewResponse{JobID: "job-1", Status: "accepted", HoursUntilStart: &hours, WillBeLate: true}}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, nil, NewJobHandler(base, jobs))

	rec := env.do(http.MethodGet, "/api/v1/jobs/job-1/cancellation-preview", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/jobs/job-1/cancellation-preview", env.token(t, "user-1"), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"job_id":"job-1","status":"accepted","hours_until_start":5.5,"will_be_late":true}`, rec.Body.String())

	jobs.err = apperrors.ErrNotJobParticipant
	rec = env.do(http.MethodGet, "/api/v1/jobs/job-1/cancellation-preview", env.token(t, "user-1"), nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(apperrors.CodeNotJobParticipant), errorCode(t, rec))
}

// --- payment webhook ---

func TestPaymentWebhook(t *testing.T) {
	subs := &fakeSubscriptions{}
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, nil, NewSubscriptionHandler(base, subs))
	payload := []byte(`{"id":"evt_1","type":"subscription.activated","user_id":"user-1","plan_id":"PRO","status":"ACTIVE"}`)

	t.Run("bad signature", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/webhooks/payments", "", payload,
			map[string]string{SignatureHeader: "deadbeef"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, string(apperrors.CodeBadSignature), errorCode(t, rec))
		assert.Empty(t, subs.applied)
	})

	t.Run("valid", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/api/v1/webhooks/payments", "", payload,
			map[string]string{SignatureHeader: sign(payload)})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, subs.applied, 1)
		assert.Equal(t, "PRO", subs.applied[0].PlanID)
	})

	t.Run("signed but invalid event", func(t *testing.T) {
		bad := []byte(`{"id":"evt_2","type":"refund.created","user_id":"user-1"}`)
		rec := env.do(http.MethodPost, "/api/v1/webhooks/payments", "", bad,
			map[string]string{SignatureHeader: sign(bad)})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, subs.applied, 1)
	})
}

// --- internal sync ---

func TestSyncUser_RequiresInternalKey(t *testing.T) {
	base := NewBaseHandler(validator.New())
	env := newTestEnv(t, nil, NewUserHandler(base, nil, nil, nil))

	rec := env.do(http.MethodPost, "/api/v1/internal/users/sync", "", []byte(`{"id":"u"}`),
		map[string]string{"X-Internal-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
