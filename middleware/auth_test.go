package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(handler gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", handler)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("player@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var got string
	w := performRequest(func(c *gin.Context) {
		email, err := JWT_decoder(c)
		require.NoError(t, err)
		got = email
		c.Status(http.StatusOK)
	}, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "player@example.com", got)
}

func TestMissingBearerToken(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		if _, err := JWT_decoder(c); err != nil {
			return
		}
		c.Status(http.StatusOK)
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGarbageToken(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		if _, err := JWT_decoder(c); err != nil {
			return
		}
		c.Status(http.StatusOK)
	}, "Bearer not.a.token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredBlocksAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := false
	router.GET("/guarded", AuthRequired, func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestDecodeSocketToken(t *testing.T) {
	token, err := GenerateToken("player@example.com")
	require.NoError(t, err)

	email, err := DecodeSocketToken(map[string]interface{}{"token": token})
	require.NoError(t, err)
	assert.Equal(t, "player@example.com", email)

	_, err = DecodeSocketToken(map[string]interface{}{})
	assert.Error(t, err)
}
