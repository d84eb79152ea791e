package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"assetdesk/internal/common"
)

const testSecret = "test-secret"

func newTestServer(logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger(logger))
	e.Use(Metrics())
	v1 := VersionRoute(e, "v1", "1.2.3")
	v1.Use(echojwt.WithConfig(JWTConfig(testSecret)), RequireSession())
	v1.GET("/whoami/:id", func(c echo.Context) error {
		s, _ := common.SessionFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]string{"name": s.DisplayName(), "id": s.UserID.String()})
	})
	return e
}

func TestJWT_ValidTokenSetsSession(t *testing.T) {
	e := newTestServer(zap.NewNop())
	session := common.Session{UserID: uuid.New(), Name: "Ana Ruiz"}
	token, err := IssueToken(testSecret, session, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/whoami/1", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Ana Ruiz","id":"`+session.UserID.String()+`"}`, rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Equal(t, "1.2.3", rec.Header().Get("X-App-Version"))
}

func TestJWT_RejectsBadTokens(t *testing.T) {
	e := newTestServer(zap.NewNop())
	expired, err := IssueToken(testSecret, common.Session{UserID: uuid.New()}, -time.Minute)
	require.NoError(t, err)
	foreign, err := IssueToken("another-secret", common.Session{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)
	anonymous, err := IssueToken(testSecret, common.Session{}, time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"expired":   "Bearer " + expired,
		"signature": "Bearer " + foreign,
		"no user":   "Bearer " + anonymous,
	} {
		req := httptest.NewRequest(http.MethodGet, "/v1/whoami/1", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}

	_, err = IssueToken("", common.Session{}, time.Hour)
	assert.Error(t, err)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	e := newTestServer(zap.NewNop())
	token, err := IssueToken(testSecret, common.Session{UserID: uuid.New()}, time.Hour)
	require.NoError(t, err)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/v1/whoami/:id", "200")
	before := testutil.ToFloat64(counter)
	for _, id := range []string{"1", "2"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/whoami/"+id, nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := newTestServer(zap.New(core))

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/whoami/1", nil))

	entries := logs.FilterMessage("request rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusUnauthorized), entries[0].ContextMap()["status"])
}
