package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

type validatorStub struct {
	seen string
}

func (v *validatorStub) ValidateToken(token string) (*models.SessionClaims, error) {
	v.seen = token
	if token != "good" {
		return nil, appErrors.ErrSessionNotFound
	}
	return &models.SessionClaims{SessionID: "sess-1"}, nil
}

func newSessionRouter(v *validatorStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", Session(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"session": SessionID(c), "log": c.GetString(logger.SessionKey)})
	})
	return r
}

func TestSessionMiddlewareBearer(t *testing.T) {
	v := &validatorStub{}
	r := newSessionRouter(v)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session":"sess-1","log":"sess-1"}`, w.Body.String())
	assert.Equal(t, "good", v.seen)
}

func TestSessionMiddlewareHeaderToken(t *testing.T) {
	r := newSessionRouter(&validatorStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(SessionTokenHeader, "good")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionMiddlewareRejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "unknown session", header: "Bearer stale", status: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newSessionRouter(&validatorStub{})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
