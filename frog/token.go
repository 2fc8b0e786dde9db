package frog

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore guarda a credencial de acesso de curta duração, apenas em
// memória. Não há rastreio local de expiração: ela é descoberta de forma
// reativa via 401 e resolvida pelo RefreshCoordinator.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore cria um store vazio.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get devolve a credencial atual ("" quando não há sessão).
func (s *TokenStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set instala (ou limpa, com "") a credencial. O Client lê o store a cada
// requisição, então limpar aqui remove o header Authorization das próximas.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// TokenClaims claims informativos extraídos do access token.
type TokenClaims struct {
	UsuarioID string
	Email     string
	ExpiraEm  time.Time
}

type accessClaims struct {
	jwt.RegisteredClaims
	UsuarioID int64  `json:"usuario_id"`
	Email     string `json:"email"`
}

// Claims decodifica o token atual sem validar assinatura, só para
// diagnóstico (exibir expiração, logar o sujeito). Nunca deve ser usado
// para decidir se uma requisição será feita.
func (s *TokenStore) Claims() (*TokenClaims, error) {
	tok := s.Get()
	if tok == "" {
		return nil, ErrSessaoEncerrada
	}
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return nil, err
	}
	out := &TokenClaims{
		UsuarioID: claims.Subject,
		Email:     claims.Email,
	}
	if claims.ExpiresAt != nil {
		out.ExpiraEm = claims.ExpiresAt.Time
	}
	return out, nil
}
