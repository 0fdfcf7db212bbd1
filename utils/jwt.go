package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TriggerAudience is the audience claim required on trigger delivery tokens.
const TriggerAudience = "dutynotify-triggers"

// GenerateTriggerToken creates a signed HS256 token a trigger source presents
// when pushing events to the ingress endpoints.
func GenerateTriggerToken(secret []byte, source string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": source,
		"aud": TriggerAudience,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateTriggerToken parses and validates a trigger token and returns its source.
func ValidateTriggerToken(secret []byte, tokenString string) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("trigger secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if !claims.VerifyAudience(TriggerAudience, true) {
		return "", errors.New("token audience mismatch")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}
