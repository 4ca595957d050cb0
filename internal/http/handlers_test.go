package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ugcgo/ugcgo-backend/internal/admin"
	"github.com/ugcgo/ugcgo-backend/internal/entitlement"
	"github.com/ugcgo/ugcgo-backend/internal/identity"
	"github.com/ugcgo/ugcgo-backend/internal/jwt"
	"github.com/ugcgo/ugcgo-backend/internal/metrics"
	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/plan"
	"github.com/ugcgo/ugcgo-backend/internal/rbac"
	"github.com/ugcgo/ugcgo-backend/internal/store"
	"github.com/ugcgo/ugcgo-backend/internal/store/mocks"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router  http.Handler
	db      *mocks.Database
	tokens  *jwt.JWTManager
	metrics *metrics.Metrics
}

func setupTestRouter(t *testing.T) *testEnv {
	db := mocks.NewDatabase(t)
	tokens := jwt.NewJWTManager("test-secret")
	m := metrics.New()
	catalog := plan.DefaultCatalog()

	entitlementService := entitlement.NewService(db, catalog,
		entitlement.WithClock(func() time.Time { return testNow }),
		entitlement.WithRecorder(m),
	)
	policy := rbac.NewRBAC([]string{"admin@example.com"})
	adminService := admin.NewService(db, policy, admin.WithRecorder(m))

	server := NewServer(entitlementService, adminService, plan.NewService(catalog))
	router := SetupRouter(server, identity.NewLocalResolver(tokens), policy, m.Handler(), m)

	return &testEnv{router: router, db: db, tokens: tokens, metrics: m}
}

func (e *testEnv) token(t *testing.T, userID, email string) string {
	tok, err := e.tokens.GenerateToken(userID, email, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeDenial(t *testing.T, w *httptest.ResponseRecorder) DenialDetail {
	var resp DenialResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

func activeSub(ref string) *store.Subscription {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return &store.Subscription{PriceID: ref, Status: "active", CurrentPeriodStart: &start, CurrentPeriodEnd: &end}
}

func TestHandler_Health(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHandler_Plans_Public(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/api/subscription/plans", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PlansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Plans, 3)
	assert.Equal(t, "starter", resp.Plans[0].ID)
	assert.Equal(t, 100, resp.Plans[2].MonthlyVideoLimit)
}

func TestHandler_CORSPreflight(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodOptions, "/api/subscription/can-create-video", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_CanCreateVideo_Unauthorized(t *testing.T) {
	env := setupTestRouter(t)

	for _, auth := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		w := env.do(http.MethodPost, "/api/subscription/can-create-video", auth, `{"has_photo":true}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code, auth)
		d := decodeDenial(t, w)
		assert.Equal(t, entitlement.CodeUnauthorized, d.Code)
		assert.Nil(t, d.RemainingVideos)
	}
}

func TestHandler_CanCreateVideo_InvalidContentType(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/can-create-video", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestHandler_CanCreateVideo_InvalidJSON(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/subscription/can-create-video", env.token(t, "u1", "u1@example.com"), `{"has_photo": true`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestHandler_CanCreateVideo_ValidationFails(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/subscription/can-create-video", env.token(t, "u1", "u1@example.com"), `{"has_photo":true,"video_count":-1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request")
}

func TestHandler_CanCreateVideo_Allowed(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCredits", mock.Anything, "u1").Return(nil, nil)
	env.db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(activeSub("iyzico_starter_monthly"), nil)
	env.db.On("CountCompletedVideos", mock.Anything, "u1", mock.Anything, mock.Anything).Return(int64(4), nil)

	w := env.do(http.MethodPost, "/api/subscription/can-create-video", env.token(t, "u1", "u1@example.com"), `{"has_photo":true,"video_count":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.VideoCreationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)
	assert.Equal(t, 15, resp.RemainingVideos)
	assert.Equal(t, 20, resp.PlanLimit)
	require.NotNil(t, resp.CurrentPlan)
	assert.Equal(t, "Starter", *resp.CurrentPlan)
}

func TestHandler_CanCreateVideo_DenialStatuses(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(db *mocks.Database)
		body   string
		status int
		code   string
	}{
		{
			name: "no subscription",
			setup: func(db *mocks.Database) {
				db.On("GetCredits", mock.Anything, "u1").Return(nil, nil)
				db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(nil, nil)
			},
			body:   `{"has_photo":true}`,
			status: http.StatusPaymentRequired,
			code:   entitlement.CodeNoActiveSubscription,
		},
		{
			name: "expired",
			setup: func(db *mocks.Database) {
				sub := activeSub("starter")
				past := testNow.Add(-time.Hour)
				sub.CurrentPeriodEnd = &past
				db.On("GetCredits", mock.Anything, "u1").Return(nil, nil)
				db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(sub, nil)
			},
			body:   `{"has_photo":true}`,
			status: http.StatusPaymentRequired,
			code:   entitlement.CodeSubscriptionExpired,
		},
		{
			name: "photo required",
			setup: func(db *mocks.Database) {
				db.On("GetCredits", mock.Anything, "u1").Return(&store.UserCredits{Balance: 2}, nil)
			},
			body:   `{"has_photo":false}`,
			status: http.StatusBadRequest,
			code:   entitlement.CodePhotoRequired,
		},
		{
			name: "invalid plan",
			setup: func(db *mocks.Database) {
				db.On("GetCredits", mock.Anything, "u1").Return(nil, nil)
				db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(activeSub("price_removed"), nil)
			},
			body:   `{"has_photo":true}`,
			status: http.StatusBadRequest,
			code:   entitlement.CodeInvalidPlan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)
			tt.setup(env.db)

			w := env.do(http.MethodPost, "/api/subscription/can-create-video", env.token(t, "u1", "u1@example.com"), tt.body)

			assert.Equal(t, tt.status, w.Code)
			d := decodeDenial(t, w)
			assert.Equal(t, tt.code, d.Code)
			assert.NotEmpty(t, d.Message)
			assert.Nil(t, d.PlanLimit)
		})
	}
}

func TestHandler_CanCreateVideo_LimitReachedCarriesQuota(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCredits", mock.Anything, "u1").Return(nil, nil)
	env.db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(activeSub("starter"), nil)
	env.db.On("CountCompletedVideos", mock.Anything, "u1", mock.Anything, mock.Anything).Return(int64(20), nil)

	w := env.do(http.MethodPost, "/api/subscription/can-create-video", env.token(t, "u1", "u1@example.com"), `{"has_photo":true}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	d := decodeDenial(t, w)
	assert.Equal(t, entitlement.CodeMonthlyLimitReached, d.Code)
	require.NotNil(t, d.RemainingVideos)
	require.NotNil(t, d.PlanLimit)
	assert.Equal(t, 0, *d.RemainingVideos)
	assert.Equal(t, 20, *d.PlanLimit)
}

func TestHandler_Status(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCredits", mock.Anything, "u1").Return(&store.UserCredits{Balance: 1}, nil)
	env.db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(activeSub("professional"), nil)
	env.db.On("CountCompletedVideos", mock.Anything, "u1", mock.Anything, mock.Anything).Return(int64(10), nil)

	w := env.do(http.MethodGet, "/api/subscription/status", env.token(t, "u1", "u1@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SubscriptionStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.HasActiveSubscription)
	assert.Equal(t, 35, resp.RemainingVideos)
	assert.Equal(t, 1, resp.GiftCredits)
}

func TestHandler_CheckFeature(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetSubscriptionByUser", mock.Anything, "u1").Return(activeSub("starter"), nil)

	w := env.do(http.MethodGet, "/api/subscription/check-feature/api_access", env.token(t, "u1", "u1@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FeatureAccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.HasAccess)
	assert.Equal(t, "api_access", resp.FeatureID)
	require.NotNil(t, resp.Reason)
}

func TestHandler_ConsumeCredits(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCredits", mock.Anything, "u1").Return(&store.UserCredits{UserID: "u1", Balance: 3}, nil)
	env.db.On("CompareAndSetCredits", mock.Anything, "u1", 3, 2).Return(true, nil)

	w := env.do(http.MethodPost, "/api/subscription/consume-credits", env.token(t, "u1", "u1@example.com"), `{"count":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ConsumeCreditsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Consumed)
	assert.Equal(t, 2, resp.Balance)
}

func TestHandler_ConsumeCredits_Insufficient(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCredits", mock.Anything, "u1").Return(&store.UserCredits{UserID: "u1", Balance: 0}, nil)

	w := env.do(http.MethodPost, "/api/subscription/consume-credits", env.token(t, "u1", "u1@example.com"), `{"count":1}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestHandler_ConsumeCredits_RequiresCount(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/subscription/consume-credits", env.token(t, "u1", "u1@example.com"), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GiftToken(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCreditsByEmail", mock.Anything, "friend@example.com").Return(&store.UserCredits{UserID: "u9", Balance: 1}, nil)
	env.db.On("UpdateCredits", mock.Anything, "u9", 4).Return(nil)

	w := env.do(http.MethodPost, "/api/subscription/admin/gift-token", env.token(t, "a1", "Admin@Example.com"), `{"user_email":"friend@example.com","video_count":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.GiftTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 4, resp.TotalVideos)
}

func TestHandler_GiftToken_Forbidden(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/subscription/admin/gift-token", env.token(t, "u1", "u1@example.com"), `{"user_email":"friend@example.com","video_count":3}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), msgAdminRequired)
}

func TestHandler_GiftToken_UserNotFound(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCreditsByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
	env.db.On("ListAuthUsers", mock.Anything).Return([]*store.AuthUser{}, nil)

	w := env.do(http.MethodPost, "/api/subscription/admin/gift-token", env.token(t, "a1", "admin@example.com"), `{"user_email":"ghost@example.com","video_count":1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost@example.com")
}

func TestHandler_GiftToken_InvalidEmail(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodPost, "/api/subscription/admin/gift-token", env.token(t, "a1", "admin@example.com"), `{"user_email":"not-an-email","video_count":1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GiftToken_StoreFailure(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetCreditsByEmail", mock.Anything, "friend@example.com").Return(nil, errors.New("503"))

	w := env.do(http.MethodPost, "/api/subscription/admin/gift-token", env.token(t, "a1", "admin@example.com"), `{"user_email":"friend@example.com","video_count":1}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_ListUsers(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("ListAuthUsers", mock.Anything).Return([]*store.AuthUser{{ID: "u1", Email: "u1@example.com"}}, nil)
	env.db.On("ListCredits", mock.Anything).Return([]*store.UserCredits{{UserID: "u1", Balance: 7}}, nil)

	w := env.do(http.MethodGet, "/api/subscription/admin/users", env.token(t, "a1", "admin@example.com"), "")
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.UserListItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, 7, users[0].Credits)
}

func TestHandler_ListUsers_Forbidden(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/api/subscription/admin/users", env.token(t, "u1", "u1@example.com"), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/api/subscription/can-create-video", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandler_MetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	env.do(http.MethodGet, "/api/subscription/plans", "", "")

	w := env.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `ugcgo_http_requests_total{method="GET",route="GET /api/subscription/plans",status="200"} 1`)
}

func TestHandler_OpenAPI_NotRegistered(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(http.MethodGet, "/openapi.json", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// denyPolicy grants everything except the listed permissions.
type denyPolicy map[rbac.Permission]bool

func (p denyPolicy) Can(id *models.Identity, perm rbac.Permission) bool {
	return id != nil && !p[perm]
}

func TestHandler_SubscriberRoutesEnforcePermissions(t *testing.T) {
	db := mocks.NewDatabase(t)
	tokens := jwt.NewJWTManager("test-secret")
	catalog := plan.DefaultCatalog()
	policy := denyPolicy{rbac.PermissionVideoCreate: true, rbac.PermissionSubscriptionView: true}

	server := NewServer(
		entitlement.NewService(db, catalog),
		admin.NewService(db, policy),
		plan.NewService(catalog),
	)
	router := SetupRouter(server, identity.NewLocalResolver(tokens), policy, nil, nil)
	env := &testEnv{router: router, db: db, tokens: tokens}
	auth := env.token(t, "u1", "u1@example.com")

	tests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/subscription/can-create-video", `{"has_photo":true}`},
		{http.MethodGet, "/api/subscription/status", ""},
		{http.MethodGet, "/api/subscription/check-feature/hd_export", ""},
	}
	for _, tt := range tests {
		w := env.do(tt.method, tt.path, auth, tt.body)
		assert.Equal(t, http.StatusForbidden, w.Code, tt.path)
		assert.Contains(t, w.Body.String(), msgPermissionDenied, tt.path)
	}

	// unauthenticated requests are still rejected before the policy runs
	w := env.do(http.MethodGet, "/api/subscription/status", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	db.AssertNotCalled(t, "GetCredits", mock.Anything, mock.Anything)
	db.AssertNotCalled(t, "GetSubscriptionByUser", mock.Anything, mock.Anything)
}

func TestRequestIDMiddleware_PropagatesID(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "req-42", seen)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	_, ok := GetRequestID(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.False(t, ok)
}
