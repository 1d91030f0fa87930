package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	staffModel "library-backend/internal/domains/staff/model"
	"library-backend/internal/config"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	"library-backend/pkg/container"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Success bool                `json:"success"`
	Data    jsoniter.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	c      *container.Container
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "Library API", Environment: "test", Version: "test", CORSOrigins: []string{"*"}},
		JWT: config.JWTConfig{Secret: "router-test-secret", AccessTokenExpiry: time.Hour},
		Loan: config.LoanConfig{
			DefaultDays: 14,
			DailyFine:   decimal.RequireFromString("0.50"),
			MaxFine:     decimal.RequireFromString("10.00"),
		},
		Report: config.ReportConfig{CacheTTL: time.Minute},
	}

	c := container.New(cfg, database.NewTestStore(t), cache.NewNoopCache(), nil)
	return &testAPI{t: t, router: SetupRouter(c), c: c}
}

func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

// login creates a staff account and returns its access token
func (a *testAPI) login(username string, role staffModel.Role) string {
	a.t.Helper()
	_, err := a.c.StaffService.Create(context.Background(), staffModel.CreateStaffRequest{
		Username: username, Password: "library-pass", Role: role,
	})
	require.NoError(a.t, err)

	w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": "library-pass"})
	require.Equal(a.t, http.StatusOK, w.Code)

	var res struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &res))
	return res.AccessToken
}

func (a *testAPI) createID(path, token string, body interface{}) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var res struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &res))
	return res.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"queue":"disabled"`)
}

func TestWritesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(http.MethodPost, "/api/v1/authors", "", gin.H{"name": "Anonymous"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/authors", "not-a-token", gin.H{"name": "Anonymous"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/authors", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t)
	api.login("clerk", staffModel.RoleLibrarian)

	w, env := api.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "clerk", "password": "guess-again"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestLoanLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("librarian", staffModel.RoleLibrarian)

	authorID := api.createID("/api/v1/authors", token, gin.H{"name": "Isabel Allende"})
	bookID := api.createID("/api/v1/books", token, gin.H{"title": "La casa de los espíritus", "author_ids": []string{authorID}})
	editionID := api.createID("/api/v1/editions", token, gin.H{
		"isbn": "978-84-01-24225-6", "year": 1982, "language": "es",
		"book_id": bookID, "format": "hardcover", "page_count": 448,
	})
	copyID := api.createID("/api/v1/copies", token, gin.H{"edition_id": editionID})
	memberID := api.createID("/api/v1/members", token, gin.H{"national_id": "11111111-1", "name": "Clara del Valle"})

	w, _ := api.do(http.MethodPost, "/api/v1/editions", token, gin.H{
		"isbn": "978-84-01-24225-6", "year": 1982, "language": "es",
		"book_id": bookID, "format": "hardcover", "page_count": 448,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	due := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	loanID := api.createID("/api/v1/loans", token, gin.H{"member_id": memberID, "copy_id": copyID, "due_date": due})

	w, env := api.do(http.MethodPost, "/api/v1/loans", token, gin.H{"member_id": memberID, "copy_id": copyID, "due_date": due})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/loans", token, gin.H{"member_id": memberID, "copy_id": copyID, "due_date": "2000-01-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodDelete, "/api/v1/members/"+memberID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/members/"+memberID+"/loans", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/loans/"+loanID+"/return", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/loans/"+loanID+"/return", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = api.do(http.MethodGet, "/api/v1/copies/"+copyID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cp struct {
		Number    int  `json:"number"`
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cp))
	assert.Equal(t, 1, cp.Number)
	assert.True(t, cp.Available)

	w, _ = api.do(http.MethodDelete, "/api/v1/copies/"+copyID, token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w, env = api.do(http.MethodDelete, "/api/v1/copies/"+copyID+"?force=yes", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid force: must be true or false", env.Error.Message)
	w, _ = api.do(http.MethodDelete, "/api/v1/copies/"+copyID+"?force=true", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/loans/"+loanID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/loans/"+"not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	token := api.login("reporter", staffModel.RoleLibrarian)

	authorID := api.createID("/api/v1/authors", token, gin.H{"name": "Pablo Neruda"})
	bookID := api.createID("/api/v1/books", token, gin.H{"title": "Canto general", "author_ids": []string{authorID}})
	editionID := api.createID("/api/v1/editions", token, gin.H{
		"isbn": "978-84-376-1234-5", "year": 1950, "language": "es",
		"book_id": bookID, "format": "paperback", "page_count": 600,
	})
	api.createID("/api/v1/copies", token, gin.H{"edition_id": editionID})

	w, env := api.do(http.MethodGet, "/api/v1/reports/authors?name=neruda", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var matches []struct {
		Title           string `json:"title"`
		AvailableCopies int    `json:"available_copies"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Canto general", matches[0].Title)
	assert.Equal(t, 1, matches[0].AvailableCopies)

	w, _ = api.do(http.MethodGet, "/api/v1/reports/members/00000000-0", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/reports/statistics?fresh=true", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(http.MethodGet, "/api/v1/reports/statistics?fresh=please", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/reports/statistics/export", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotZero(t, w.Body.Len())

	w, _ = api.do(http.MethodGet, "/api/v1/reports/consistency", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t)
	librarian := api.login("desk", staffModel.RoleLibrarian)
	admin := api.login("root", staffModel.RoleAdmin)

	w, _ := api.do(http.MethodPost, "/api/v1/admin/reconcile", librarian, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := api.do(http.MethodPost, "/api/v1/admin/reconcile?dry_run=true", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		DryRun bool `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.DryRun)

	w, _ = api.do(http.MethodPost, "/api/v1/admin/reconcile?dry_run=maybe", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/admin/reconcile?async=true", admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/admin/staff", admin, gin.H{"username": "newbie", "password": "long-password"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(http.MethodPost, "/api/v1/admin/staff", admin, gin.H{"username": "newbie", "password": "long-password"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
