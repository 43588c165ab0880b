package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"finview/internal/config"
	apperrors "finview/internal/errors"
	"finview/internal/middleware"
	"finview/internal/models"
	"finview/internal/services"
	"finview/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	createUserFn       func(name, email, phone, password string) (*models.User, error)
	getUserByEmailFn   func(email string) (*models.User, error)
	getUserByIDFn      func(id string) (*models.User, error)
	attemptLoginFn     func(email, password string) (*models.User, error)
	findOrCreateGoogle func(profile services.GoogleProfile) (*models.User, error)
	updateProfileFn    func(id string, input services.UpdateProfileInput) (*models.User, error)
}

func (m *mockUserService) CreateUser(_ context.Context, name, email, phone, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, phone, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool {
	return true
}

func (m *mockUserService) AttemptLogin(_ context.Context, email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) FindOrCreateGoogleUser(_ context.Context, profile services.GoogleProfile) (*models.User, error) {
	if m.findOrCreateGoogle != nil {
		return m.findOrCreateGoogle(profile)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateProfile(_ context.Context, id string, input services.UpdateProfileInput) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(id, input)
	}
	return &models.User{}, nil
}

type mockResetService struct {
	requestResetFn  func(email string) error
	verifyOTPFn     func(email, otp string) error
	resetPasswordFn func(email, otp, password string) (*models.User, error)
}

func (m *mockResetService) RequestReset(_ context.Context, email string) error {
	if m.requestResetFn != nil {
		return m.requestResetFn(email)
	}
	return nil
}

func (m *mockResetService) VerifyOTP(_ context.Context, email, otp string) error {
	if m.verifyOTPFn != nil {
		return m.verifyOTPFn(email, otp)
	}
	return nil
}

func (m *mockResetService) ResetPassword(_ context.Context, email, otp, password string) (*models.User, error) {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(email, otp, password)
	}
	return &models.User{}, nil
}

type mockGoogleVerifier struct {
	verifyFn func(idToken string) (*services.GoogleProfile, error)
}

func (m *mockGoogleVerifier) Verify(_ context.Context, idToken string) (*services.GoogleProfile, error) {
	if m.verifyFn != nil {
		return m.verifyFn(idToken)
	}
	return &services.GoogleProfile{}, nil
}

type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_, action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

const testUserID = "0190f0d4-1c2b-7a3e-8b4c-5d6e7f8091a2"

func newTestIssuer() *middleware.TokenIssuer {
	return middleware.NewTokenIssuer(&config.Config{
		JWTSecret:        "test-secret",
		JWTExpirationDur: time.Hour,
	})
}

func newTestAuthHandler(users *mockUserService, resets *mockResetService, google *mockGoogleVerifier, audit *mockAuditService) *AuthHandler {
	if users == nil {
		users = &mockUserService{}
	}
	if resets == nil {
		resets = &mockResetService{}
	}
	if google == nil {
		google = &mockGoogleVerifier{}
	}
	if audit == nil {
		audit = &mockAuditService{}
	}
	return NewAuthHandler(users, resets, google, newTestIssuer(), audit)
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/google-login", handler.GoogleLogin)
	r.GET("/auth/logout", handler.Logout)
	r.POST("/auth/forgot-password", handler.ForgotPassword)
	r.POST("/auth/verify-otp", handler.VerifyOTP)
	r.POST("/auth/reset-password", handler.ResetPassword)
	r.GET("/users/me", injectUserID(testUserID), handler.GetProfile)
	r.PUT("/users/me", injectUserID(testUserID), handler.UpdateProfile)
	r.GET("/anonymous/me", handler.GetProfile)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertErrorMessage(t *testing.T, result map[string]interface{}, message string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["message"] != message {
		t.Errorf("expected error message %q, got %q", message, errObj["message"])
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			return c
		}
	}
	return nil
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with token and cookie", func(t *testing.T) {
		audit := &mockAuditService{}
		users := &mockUserService{
			createUserFn: func(name, email, phone, _ string) (*models.User, error) {
				return &models.User{
					Base:  models.Base{ID: testUserID},
					Name:  name,
					Email: email,
					Phone: phone,
					Role:  models.UserRoleUser,
				}, nil
			},
		}
		r := setupAuthRouter(newTestAuthHandler(users, nil, nil, audit))

		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@example.com","phone":"+919876543210","password":"password123"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if token, _ := result["token"].(string); token == "" {
			t.Error("expected token in response")
		}
		user := result["user"].(map[string]interface{})
		if user["email"] != "asha@example.com" || user["id"] != testUserID {
			t.Errorf("unexpected user %v", user)
		}
		if _, ok := user["password"]; ok {
			t.Error("password must not be serialized")
		}
		cookie := sessionCookie(rec)
		if cookie == nil || cookie.Value != result["token"] || !cookie.HttpOnly {
			t.Errorf("expected http-only session cookie carrying the token, got %+v", cookie)
		}
		if len(audit.actions) != 1 || audit.actions[0] != services.AuditActionRegister {
			t.Errorf("expected REGISTER audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 for invalid email", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"not-an-email","password":"password123"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 for short password", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@example.com","password":"short"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 for duplicate email", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(_, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		r := setupAuthRouter(newTestAuthHandler(users, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/register",
			`{"name":"Asha","email":"asha@example.com","password":"password123"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "DUPLICATE_EMAIL")
		assertErrorMessage(t, result, "User already registered")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with token", func(t *testing.T) {
		audit := &mockAuditService{}
		users := &mockUserService{
			attemptLoginFn: func(email, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Email: email, Name: "Asha"}, nil
			},
		}
		r := setupAuthRouter(newTestAuthHandler(users, nil, nil, audit))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"asha@example.com","password":"password123"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		token, _ := result["token"].(string)
		if token == "" {
			t.Fatal("expected token in response")
		}
		claims, err := newTestIssuer().Parse(token)
		if err != nil {
			t.Fatalf("issued token does not parse: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("expected subject %s, got %s", testUserID, claims.UserID)
		}
		if sessionCookie(rec) == nil {
			t.Error("expected session cookie")
		}
		if len(audit.actions) != 1 || audit.actions[0] != services.AuditActionLogin {
			t.Errorf("expected LOGIN audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 401 for invalid credentials", func(t *testing.T) {
		users := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(newTestAuthHandler(users, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"asha@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_CREDENTIALS")
		assertErrorMessage(t, result, "Invalid login credential")
		if sessionCookie(rec) != nil {
			t.Error("no cookie expected on failed login")
		}
	})

	t.Run("returns 400 for missing password", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/login", `{"email":"asha@example.com"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	t.Run("signs in verified google user", func(t *testing.T) {
		var gotProfile services.GoogleProfile
		google := &mockGoogleVerifier{
			verifyFn: func(idToken string) (*services.GoogleProfile, error) {
				if idToken != "google-token" {
					t.Errorf("unexpected token %q", idToken)
				}
				return &services.GoogleProfile{Subject: "sub-1", Email: "asha@example.com", Name: "Asha"}, nil
			},
		}
		users := &mockUserService{
			findOrCreateGoogle: func(profile services.GoogleProfile) (*models.User, error) {
				gotProfile = profile
				return &models.User{Base: models.Base{ID: testUserID}, Email: profile.Email, Name: profile.Name}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupAuthRouter(newTestAuthHandler(users, nil, google, audit))

		rec := doRequest(r, http.MethodPost, "/auth/google-login", `{"id_token":"google-token"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotProfile.Email != "asha@example.com" {
			t.Errorf("profile not forwarded: %+v", gotProfile)
		}
		if len(audit.actions) != 1 || audit.actions[0] != services.AuditActionGoogleLogin {
			t.Errorf("expected GOOGLE_LOGIN audit entry, got %v", audit.actions)
		}
	})

	t.Run("rejects invalid token", func(t *testing.T) {
		google := &mockGoogleVerifier{
			verifyFn: func(string) (*services.GoogleProfile, error) {
				return nil, apperrors.ErrInvalidGoogleCredential
			},
		}
		r := setupAuthRouter(newTestAuthHandler(nil, nil, google, nil))
		rec := doRequest(r, http.MethodPost, "/auth/google-login", `{"id_token":"bad"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_GOOGLE_TOKEN")
	})

	t.Run("requires id_token", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/google-login", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
	rec := doRequest(r, http.MethodGet, "/auth/logout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected expired session cookie, got %+v", cookie)
	}
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("forgot password sends otp", func(t *testing.T) {
		var gotEmail string
		resets := &mockResetService{
			requestResetFn: func(email string) error {
				gotEmail = email
				return nil
			},
		}
		r := setupAuthRouter(newTestAuthHandler(nil, resets, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/forgot-password", `{"email":"asha@example.com"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotEmail != "asha@example.com" {
			t.Errorf("unexpected email %q", gotEmail)
		}
	})

	t.Run("forgot password unknown user", func(t *testing.T) {
		resets := &mockResetService{
			requestResetFn: func(string) error { return apperrors.ErrUserNotFound },
		}
		r := setupAuthRouter(newTestAuthHandler(nil, resets, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/forgot-password", `{"email":"nobody@example.com"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("verify otp rejects malformed code", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/verify-otp", `{"email":"asha@example.com","otp":"12ab"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("verify otp expired", func(t *testing.T) {
		resets := &mockResetService{
			verifyOTPFn: func(_, _ string) error { return apperrors.ErrOTPExpired },
		}
		r := setupAuthRouter(newTestAuthHandler(nil, resets, nil, nil))
		rec := doRequest(r, http.MethodPost, "/auth/verify-otp", `{"email":"asha@example.com","otp":"123456"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "OTP_EXPIRED")
	})

	t.Run("reset password records audit", func(t *testing.T) {
		audit := &mockAuditService{}
		resets := &mockResetService{
			resetPasswordFn: func(_, otp, password string) (*models.User, error) {
				if otp != "123456" || password != "newpassword1" {
					t.Errorf("unexpected args %q %q", otp, password)
				}
				return &models.User{Base: models.Base{ID: testUserID}}, nil
			},
		}
		r := setupAuthRouter(newTestAuthHandler(nil, resets, nil, audit))
		rec := doRequest(r, http.MethodPost, "/auth/reset-password",
			`{"email":"asha@example.com","otp":"123456","password":"newpassword1"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(audit.actions) != 1 || audit.actions[0] != services.AuditActionResetPassword {
			t.Errorf("expected RESET_PASSWORD audit entry, got %v", audit.actions)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("returns profile", func(t *testing.T) {
		users := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Name: "Asha", Email: "asha@example.com"}, nil
			},
		}
		r := setupAuthRouter(newTestAuthHandler(users, nil, nil, nil))
		rec := doRequest(r, http.MethodGet, "/users/me", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID || user["name"] != "Asha" {
			t.Errorf("unexpected user %v", user)
		}
	})

	t.Run("returns 401 without user", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodGet, "/anonymous/me", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("updates profile fields", func(t *testing.T) {
		var gotInput services.UpdateProfileInput
		users := &mockUserService{
			updateProfileFn: func(id string, input services.UpdateProfileInput) (*models.User, error) {
				gotInput = input
				return &models.User{Base: models.Base{ID: id}, Name: *input.Name}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupAuthRouter(newTestAuthHandler(users, nil, nil, audit))
		rec := doRequest(r, http.MethodPut, "/users/me", `{"name":"Asha K"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotInput.Name == nil || *gotInput.Name != "Asha K" {
			t.Errorf("name not forwarded: %+v", gotInput)
		}
		if gotInput.Phone != nil || gotInput.Avatar != nil {
			t.Errorf("absent fields must stay nil: %+v", gotInput)
		}
		if len(audit.actions) != 1 || audit.actions[0] != services.AuditActionUpdateProfile {
			t.Errorf("expected UPDATE_PROFILE audit entry, got %v", audit.actions)
		}
	})

	t.Run("rejects invalid avatar url", func(t *testing.T) {
		r := setupAuthRouter(newTestAuthHandler(nil, nil, nil, nil))
		rec := doRequest(r, http.MethodPut, "/users/me", `{"avatar":"not a url"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
