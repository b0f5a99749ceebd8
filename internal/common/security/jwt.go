package security

import (
	"errors"
	"study_platform/internal/platform/config"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken signs an access token whose subject is the user's email.
// It returns the token string together with the expiry instant as epoch
// milliseconds, which is what the login response exposes as expiredAt.
func GenerateToken(email string) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(config.AppConfig.JWTExp)
	claims := jwt.MapClaims{
		"email": email,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresAt.UnixMilli(), nil
}

// GetEmailFromClaims extracts the subject email, used by the auth middleware.
func GetEmailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}
