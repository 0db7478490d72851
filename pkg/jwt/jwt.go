package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret se retorna cuando se intenta firmar o verificar sin secret.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// appClaims son los claims registrados más la identidad de la sesión POS.
// role viaja en el token para que el RBAC no toque la base de datos.
type appClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // admin | bodeguero | vendedor
}

// Generate firma un token HS256 con la identidad del usuario y su empresa.
// expMinutes negativo produce un token ya vencido (útil en tests).
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, appClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	})
	return token.SignedString([]byte(secret))
}

// Parse verifica firma y vigencia, y devuelve la identidad contenida en el
// token. Solo se acepta HS256; un token firmado con otro algoritmo es inválido.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	if secret == "" {
		return "", "", "", ErrEmptySecret
	}
	var claims appClaims
	_, err = jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", "", "", fmt.Errorf("jwt: token inválido: %w", err)
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}
