package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"unimarket/internal/shared/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (n nopLogger) With(args ...any) logger.Interface             { return n }
func (n nopLogger) Named(name string) logger.Interface            { return n }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func setupSecretRoute(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	mw := NewSharedSecret(secret, "cron_secret", nopLogger{})
	engine.POST("/run", mw.Require(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func doRequest(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/run", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestSharedSecret_ValidToken(t *testing.T) {
	engine := setupSecretRoute("s3cret")
	w := doRequest(engine, "Bearer s3cret")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSharedSecret_Rejections(t *testing.T) {
	engine := setupSecretRoute("s3cret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic s3cret"},
		{"wrong token", "Bearer nope"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(engine, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestSharedSecret_UnconfiguredSecretRejectsAll(t *testing.T) {
	engine := setupSecretRoute("")
	w := doRequest(engine, "Bearer anything")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
