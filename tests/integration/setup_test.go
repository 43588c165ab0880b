package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"finview/internal/config"
	"finview/internal/logger"
	"finview/internal/middleware"
	"finview/internal/server"
	"finview/internal/services"
	"finview/internal/store"
	"finview/internal/testutil"
	"finview/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mailer *captureMailer
}

// captureMailer records the last OTP sent to each address.
type captureMailer struct {
	mu   sync.Mutex
	otps map[string]string
}

func (m *captureMailer) SendOTP(_ context.Context, to, _, otp string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otps[to] = otp
	return nil
}

func (m *captureMailer) lastOTP(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otps[to]
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	mailer := &captureMailer{otps: map[string]string{}}

	// Services
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(store.NewBudgetStore(db), false)

	router := server.NewRouter(server.Deps{
		Users:         userService,
		Resets:        services.NewPasswordResetService(db, userService, mailer, 10*time.Minute),
		Google:        services.NewGoogleVerifier(""),
		Budgets:       budgetService,
		Notifications: services.NewNotificationService(budgetService),
		Audit:         services.NewAuditService(db),
		Tokens: middleware.NewTokenIssuer(&config.Config{
			JWTSecret:        "integration-secret",
			JWTExpirationDur: time.Hour,
		}),
	})

	return &testApp{DB: db, Router: router, Mailer: mailer}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// errorCode returns the code of an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(string)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}
