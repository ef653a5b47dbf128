package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"trackifyr/utils"
)

// issueToken signs a client id into the value of the client cookie.
func (am *AuthManager) issueToken(client string, now time.Time) (string, error) {
	claims := jwt.StandardClaims{
		Id:        utils.UniqueID(),
		Subject:   client,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(am.clientTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(am.secret)
}

// clientFromToken returns the client id of a valid token.
func (am *AuthManager) clientFromToken(value string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return am.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid client token")
	}
	return claims.Subject, nil
}
