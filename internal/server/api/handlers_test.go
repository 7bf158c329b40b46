package api

import (
	"net/http"
	"testing"

	"github.com/marinesurvey/inspector/internal/common"
	"github.com/marinesurvey/inspector/internal/logging"
	"github.com/marinesurvey/inspector/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bearer = map[string]string{"Authorization": "Bearer " + goodToken}

func TestSignup(t *testing.T) {
	s, _ := newTestServer(false)

	rec := do(t, s.Handler(), http.MethodPost, "/api/auth/signup", `{"email":"a@b.io","password":"pw"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{
		"success":           true,
		"message":           "Signup successful",
		"userId":            "u-1",
		"email":             "a@b.io",
		"isProfileComplete": false,
	}, decode(t, rec))
}

func TestSignup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		code    int
		message string
	}{
		{"bad json", `{"email":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"conflict", `{"email":"a@b.io","password":"pw"}`, common.NewError(common.ErrorConflict, "User already exists"), http.StatusBadRequest, "User already exists"},
		{"missing", `{}`, common.NewError(common.ErrorValidation, "Email and password required"), http.StatusBadRequest, "Email and password required"},
		{"internal", `{"email":"a@b.io","password":"pw"}`, common.NewError(common.ErrorInternal, "Server error"), http.StatusInternalServerError, "Server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, td := newTestServer(false)
			td.users.signupErr = tt.err

			rec := do(t, s.Handler(), http.MethodPost, "/api/auth/signup", tt.body, nil)

			require.Equal(t, tt.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	s, td := newTestServer(false)
	td.users.user = &models.User{ID: "u-1", Email: "a@b.io", FullName: "Ada Diver", Title: "Surveyor", Company: "Acme", IsProfileComplete: true}

	rec := do(t, s.Handler(), http.MethodPost, "/api/auth/login", `{"email":"a@b.io","password":"pw"}`,
		map[string]string{"User-Agent": "cli/1.0", "X-Forwarded-For": "203.0.113.9"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"success":           true,
		"message":           "Login success",
		"token":             goodToken,
		"userId":            "u-1",
		"email":             "a@b.io",
		"isProfileComplete": true,
		"fullName":          "Ada Diver",
		"title":             "Surveyor",
		"company":           "Acme",
	}, decode(t, rec))
	assert.Equal(t, "203.0.113.9", td.users.lastClient.IP)
	assert.Equal(t, "cli/1.0", td.users.lastClient.UserAgent)
}

func TestLogin_Unauthorized(t *testing.T) {
	s, td := newTestServer(false)
	td.users.loginErr = common.NewError(common.ErrorUnauthorized, "Invalid credentials")

	rec := do(t, s.Handler(), http.MethodPost, "/api/auth/login", `{"email":"a@b.io","password":"nope"}`, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Invalid credentials", body["message"])
	assert.NotContains(t, body, "token")
}

func TestProfile_RequiresToken(t *testing.T) {
	tests := []struct {
		name    string
		header  map[string]string
		message string
	}{
		{"no header", nil, "Not authorized - No token"},
		{"wrong scheme", map[string]string{"Authorization": "Basic abc"}, "Not authorized - No token"},
		{"empty bearer", map[string]string{"Authorization": "Bearer "}, "Not authorized - No token"},
		{"bad token", map[string]string{"Authorization": "Bearer forged"}, "Not authorized - Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(false)

			rec := do(t, s.Handler(), http.MethodGet, "/api/auth/profile", "", tt.header)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["message"])
		})
	}
}

func TestGetProfile_NoPassword(t *testing.T) {
	s, td := newTestServer(false)
	td.users.user.PasswordHash = "$2a$10$secret"

	rec := do(t, s.Handler(), http.MethodGet, "/api/auth/profile", "", bearer)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotContains(t, rec.Body.String(), "password")
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, "a@b.io", user["email"])
}

func TestUpdateProfile(t *testing.T) {
	s, td := newTestServer(false)

	rec := do(t, s.Handler(), http.MethodPut, "/api/auth/profile",
		`{"fullName":"Ada Diver","isProfileComplete":false,"password":"x","currentVessel":{"name":"Nordic Star"}}`, bearer)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Profile updated successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "Ada Diver", user["fullName"])
	assert.Equal(t, true, user["isProfileComplete"])

	require.NotNil(t, td.users.lastUpdate.FullName)
	require.NotNil(t, td.users.lastUpdate.CurrentVessel)
	assert.Nil(t, td.users.lastUpdate.CurrentVessel.IMO)
	assert.Nil(t, td.users.lastUpdate.Title)
}

func TestUpdateProfile_EmptyBody(t *testing.T) {
	s, td := newTestServer(false)

	rec := do(t, s.Handler(), http.MethodPut, "/api/auth/profile", "", bearer)

	require.Equal(t, http.StatusOK, rec.Code)
	user := decode(t, rec)["user"].(map[string]any)
	assert.Equal(t, true, user["isProfileComplete"])
	assert.Equal(t, models.ProfileUpdate{}, td.users.lastUpdate)
}

func TestUpdateProfile_MalformedBody(t *testing.T) {
	s, _ := newTestServer(false)

	rec := do(t, s.Handler(), http.MethodPut, "/api/auth/profile", `{"fullName":`, bearer)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decode(t, rec)["message"])
}

func TestUpdateProfile_ValidationError(t *testing.T) {
	s, td := newTestServer(false)
	td.users.updateErr = common.NewError(common.ErrorValidation, "availability: must be a valid value.")

	rec := do(t, s.Handler(), http.MethodPut, "/api/auth/profile", `{"availability":"SAILING"}`, bearer)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "availability: must be a valid value.", decode(t, rec)["message"])
}

func TestDeleteProfile(t *testing.T) {
	s, td := newTestServer(false)

	rec := do(t, s.Handler(), http.MethodDelete, "/api/auth/profile", "", bearer)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "message": "Account deleted successfully"}, decode(t, rec))
	assert.Equal(t, "u-1", td.users.deletedID)
}

func TestAuthRateLimit(t *testing.T) {
	s, td := newTestServer(false)
	lim := &fakeLimiter{limit: 2, hits: map[string]int{}}
	s = NewServer(":0", Deps{Users: td.users, Limiter: lim}, logging.Nop{}, false)

	body := `{"email":"a@b.io","password":"pw"}`
	ip := map[string]string{"X-Real-IP": "198.51.100.7"}
	for i := 0; i < 2; i++ {
		rec := do(t, s.Handler(), http.MethodPost, "/api/auth/login", body, ip)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := do(t, s.Handler(), http.MethodPost, "/api/auth/login", body, ip)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", decode(t, rec)["message"])
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, 3, lim.hits["auth:ip:198.51.100.7"])

	rec = do(t, s.Handler(), http.MethodPost, "/api/auth/login", body, map[string]string{"X-Real-IP": "198.51.100.8"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// profile routes are not throttled
	rec = do(t, s.Handler(), http.MethodGet, "/api/auth/profile", "", map[string]string{
		"Authorization": "Bearer " + goodToken,
		"X-Real-IP":     "198.51.100.7",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimit_FailsOpen(t *testing.T) {
	_, td := newTestServer(false)
	lim := &fakeLimiter{limit: 1, hits: map[string]int{}, err: assert.AnError}
	s := NewServer(":0", Deps{Users: td.users, Limiter: lim}, logging.Nop{}, false)

	for i := 0; i < 3; i++ {
		rec := do(t, s.Handler(), http.MethodPost, "/api/auth/signup", `{"email":"a@b.io","password":"pw"}`, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}
