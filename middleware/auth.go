package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	key := os.Getenv("JWT_KEY")
	if key == "" {
		key = "secret"
	}
	return []byte(key)
}

// GenerateToken issues the bearer token handed out at login. The email
// claim is the authenticated principal; controllers resolve it to a
// profile themselves.
func GenerateToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret())
}

// JWT_decoder extracts the authenticated email from the Authorization
// header. On failure it writes a 401 and aborts, so callers can simply
// return on error.
func JWT_decoder(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
		return "", fmt.Errorf("missing bearer token")
	}

	email, err := decodeToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return "", err
	}
	return email, nil
}

// DecodeSocketToken validates the token a socket.io client sends in its
// handshake auth payload and returns the email claim.
func DecodeSocketToken(authData map[string]interface{}) (string, error) {
	raw, ok := authData["token"].(string)
	if !ok || raw == "" {
		return "", fmt.Errorf("missing token in handshake auth")
	}
	return decodeToken(raw)
}

func decodeToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("token is missing the email claim")
	}
	return email, nil
}

// AuthRequired guards the /auth route group: any request without a valid
// bearer token is rejected before reaching a controller.
func AuthRequired(c *gin.Context) {
	if _, err := JWT_decoder(c); err != nil {
		return
	}
	c.Next()
}
