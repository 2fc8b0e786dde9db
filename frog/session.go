package frog

import (
	"context"
	"sync"

	"github.com/frogstock/frog-go/pkg/logger"
)

// Session é o controlador de sessão autenticada: mantém o usuário corrente,
// expõe login/logout e o flag de carregamento consumido pelos guards.
//
// Seguindo o comportamento observado do app, CheckAuth e Login devolvem
// booleanos em vez de erros: falha de rede ou credencial inválida resultam
// em "sem sessão", nunca em exceção para o chamador.
type Session struct {
	mu      sync.RWMutex
	client  *Client
	user    *Usuario
	loading bool
	log     *logger.Logger
}

// NewSession cria o controlador de sessão sobre um Client.
func NewSession(c *Client, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{client: c, loading: true, log: log}
}

// CurrentUser devolve o usuário corrente ou nil.
func (s *Session) CurrentUser() *Usuario {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading informa se há uma verificação de sessão em andamento. Inicia em
// true até o primeiro CheckAuth/Restore resolver.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setUser(u *Usuario) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

// CheckAuth busca o usuário corrente em GET /me. Sucesso armazena o usuário;
// qualquer falha limpa. Sempre limpa o flag de loading ao terminar.
func (s *Session) CheckAuth(ctx context.Context) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	var out struct {
		Usuario *Usuario `json:"usuario"`
	}
	if err := s.client.Get(ctx, "/me", nil, &out); err != nil {
		s.log.Debug().Err(err).Msg("checkAuth sem sessão")
		s.setUser(nil)
		return false
	}
	s.setUser(out.Usuario)
	return out.Usuario != nil
}

// Login envia as credenciais, instala o access token devolvido e confirma a
// sessão com CheckAuth. Devolve se a sessão resultante é válida.
func (s *Session) Login(ctx context.Context, email, senha string) bool {
	var out struct {
		AccessToken string   `json:"access_token"`
		Usuario     *Usuario `json:"usuario"`
	}
	body := map[string]string{"email": email, "senha": senha}
	if err := s.client.Post(ctx, "/login", body, &out); err != nil {
		s.log.Debug().Err(err).Str("email", email).Msg("login recusado")
		return false
	}
	if out.AccessToken == "" {
		return false
	}
	s.client.Store().Set(out.AccessToken)
	// O usuário do corpo do login é abreviado; /me é a fonte de verdade.
	return s.CheckAuth(ctx)
}

// Logout encerra a sessão. A chamada ao servidor é melhor esforço: mesmo que
// falhe, usuário e credencial locais são sempre limpos.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Post(ctx, "/logout", nil, nil); err != nil {
		s.log.Debug().Err(err).Msg("logout no servidor falhou, limpando local")
	}
	s.setUser(nil)
	s.client.Store().Set("")
}

// Restore recupera uma credencial persistida (por exemplo, de um arquivo de
// sessão) e estabelece o estado inicial com um único CheckAuth.
func (s *Session) Restore(ctx context.Context, token string) bool {
	if token != "" {
		s.client.Store().Set(token)
	}
	return s.CheckAuth(ctx)
}
