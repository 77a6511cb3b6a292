package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el inquilino (cellar_id).
// Toda consulta del motor de reconfiguración se acota por CellarID.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	CellarID string `json:"cellar_id"`
}

// Generate genera un token JWT firmado con userID y cellarID.
func Generate(secret, userID, cellarID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if cellarID == "" {
		return "", fmt.Errorf("jwt: cellar_id vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:   userID,
		CellarID: cellarID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID y cellarID.
// Retorna error si el token es inválido, expirado, con firma incorrecta o sin cellar_id.
func Parse(secret, tokenString string) (userID, cellarID string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	if claims.CellarID == "" {
		return "", "", fmt.Errorf("claims sin cellar_id")
	}
	return claims.UserID, claims.CellarID, nil
}
