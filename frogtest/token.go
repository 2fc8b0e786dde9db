package frogtest

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// claims inclui os claims padrão JWT mais os campos usados pelo servidor de
// teste. Gen permite revogar de uma vez todos os access tokens emitidos
// (knob para forçar o caminho de refresh nos testes do cliente).
type claims struct {
	jwt.RegisteredClaims
	UsuarioID int64  `json:"usuario_id"`
	Email     string `json:"email"`
	Tipo      string `json:"tipo,omitempty"` // "refresh" para refresh tokens
	Gen       int    `json:"gen"`
}

// generateToken gera um token HS256 assinado.
func generateToken(secret string, usuarioID int64, email, tipo string, gen int, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("frogtest: secret vazio")
	}
	now := time.Now()
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", usuarioID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UsuarioID: usuarioID,
		Email:     email,
		Tipo:      tipo,
		Gen:       gen,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	return token.SignedString([]byte(secret))
}

// parseToken valida o token e devolve os claims. Retorna erro se o token é
// inválido, expirado ou tem assinatura incorreta.
func parseToken(secret, tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	cl, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return cl, nil
}
