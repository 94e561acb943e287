package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/config"
	"github.com/lobami/campaign-analytics/internal/models"
	"github.com/lobami/campaign-analytics/internal/mykafka"
	"github.com/lobami/campaign-analytics/internal/repo"
	"github.com/lobami/campaign-analytics/internal/service"
	"github.com/lobami/campaign-analytics/internal/tokens"
)

// testEnv wires the handlers against an in-memory database. Kafka gets a
// drop-everything producer and Elasticsearch stays nil, so tests run
// without any external process.
type testEnv struct {
	DB        *gorm.DB
	Echo      *echo.Echo
	Auth      *AuthHandler
	Campaigns *CampaignHandler
	AuthSvc   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	issuer := tokens.NewService([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
	authSvc := service.NewAuthService(repo.NewUserRepo(db), repo.NewTokenRepo(db), issuer)
	campaignSvc := service.NewCampaignService(repo.NewCampaignRepo(db))
	producer := mykafka.NewProducer(nil)

	return &testEnv{
		DB:        db,
		Echo:      echo.New(),
		Auth:      &AuthHandler{Svc: authSvc, Producer: producer},
		Campaigns: &CampaignHandler{Svc: campaignSvc, Producer: producer},
		AuthSvc:   authSvc,
	}
}

func (e *testEnv) request(t *testing.T, method, target string, body any, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.Echo.NewContext(req, rec), rec
}

func (e *testEnv) createCompany(t *testing.T, name string) uint {
	t.Helper()
	company := models.Company{Name: name}
	require.NoError(t, e.DB.Create(&company).Error)
	return company.ID
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookieName {
			return ck
		}
	}
	t.Fatal("no refresh cookie in response")
	return nil
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
	return he
}
