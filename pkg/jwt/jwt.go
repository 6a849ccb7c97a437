package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PurposeApproval marca los tokens de los enlaces de aprobación de órdenes.
const PurposeApproval = "po-approval"

// ErrWrongPurpose el token es válido pero no sirve para esta operación.
var ErrWrongPurpose = errors.New("jwt: propósito del token inválido")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role permite al middleware RBAC decidir sin consultar la DB.
// Purpose solo se llena en tokens de un solo uso (enlaces de aprobación).
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id,omitempty"`
	Role    string `json:"role,omitempty"` // "admin" | "compras" | "bodeguero"
	OrderID string `json:"order_id,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// Generate genera un token de acceso firmado que incluye userID y role.
func Generate(secret, userID, role, issuer string, expMinutes int) (string, error) {
	now := time.Now()
	return sign(secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
		Role:   role,
	})
}

// Parse valida un token de acceso y devuelve userID y role.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es un enlace de aprobación.
func Parse(secret, tokenString string) (userID, role string, err error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Purpose != "" {
		return "", "", ErrWrongPurpose
	}
	return claims.UserID, claims.Role, nil
}

// GenerateApprovalToken firma el enlace de aprobación de una orden de compra.
func GenerateApprovalToken(secret, orderID, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	return sign(secret, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   orderID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		OrderID: orderID,
		Purpose: PurposeApproval,
	})
}

// ParseApprovalToken valida el enlace de aprobación y devuelve el ID de la orden.
func ParseApprovalToken(secret, tokenString string) (orderID string, err error) {
	claims, err := parse(secret, tokenString)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeApproval || claims.OrderID == "" {
		return "", ErrWrongPurpose
	}
	return claims.OrderID, nil
}

// ApprovalSigner emite y verifica enlaces de aprobación con una configuración fija.
type ApprovalSigner struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Issue firma un enlace para orderID.
func (s ApprovalSigner) Issue(orderID string) (string, error) {
	return GenerateApprovalToken(s.Secret, orderID, s.Issuer, s.TTL)
}

// Verify devuelve el ID de la orden de un enlace válido.
func (s ApprovalSigner) Verify(token string) (string, error) {
	return ParseApprovalToken(s.Secret, token)
}

func sign(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}
