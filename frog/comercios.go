package frog

import (
	"context"
	"fmt"
)

// ComerciosService operações sobre comércios: criação em duas etapas
// (nome + configuração), listagem dos comércios do usuário, configuração e
// link de convite.
type ComerciosService struct {
	c *Client
}

// CriarComercioRequest corpo de criação de comércio.
type CriarComercioRequest struct {
	Nome         string                `json:"nome"`
	Configuracao *ConfiguracaoComercio `json:"configuracao,omitempty"`
}

type comercioEnvelope struct {
	Comercio *Comercio `json:"comercio"`
}

// Criar cria um comércio. Nome duplicado retorna *APIError com a mensagem do
// servidor, exibida verbatim ao usuário.
func (s *ComerciosService) Criar(ctx context.Context, in CriarComercioRequest) (*Comercio, error) {
	var out comercioEnvelope
	if err := s.c.Post(ctx, "/comercios", in, &out); err != nil {
		return nil, err
	}
	return out.Comercio, nil
}

// Meus lista os comércios aos quais o usuário autenticado tem acesso.
func (s *ComerciosService) Meus(ctx context.Context) ([]ComercioResumo, error) {
	var out struct {
		Comercios []ComercioResumo `json:"comercios"`
	}
	if err := s.c.Get(ctx, "/me/comercios", nil, &out); err != nil {
		return nil, err
	}
	return out.Comercios, nil
}

// Get busca um comércio por id.
func (s *ComerciosService) Get(ctx context.Context, comercioID int64) (*Comercio, error) {
	var out comercioEnvelope
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Comercio, nil
}

// AtualizarComercioRequest campos alteráveis de um comércio.
type AtualizarComercioRequest struct {
	Nome *string `json:"nome,omitempty"`
}

// Atualizar altera um comércio.
func (s *ComerciosService) Atualizar(ctx context.Context, comercioID int64, in AtualizarComercioRequest) (*Comercio, error) {
	var out comercioEnvelope
	if err := s.c.Patch(ctx, fmt.Sprintf("/comercios/%d", comercioID), in, &out); err != nil {
		return nil, err
	}
	return out.Comercio, nil
}

// Excluir remove um comércio.
func (s *ComerciosService) Excluir(ctx context.Context, comercioID int64) error {
	return s.c.Delete(ctx, fmt.Sprintf("/comercios/%d", comercioID), nil, nil)
}

// Config busca a configuração do comércio.
func (s *ComerciosService) Config(ctx context.Context, comercioID int64) (*ConfiguracaoComercio, error) {
	var out struct {
		Configuracao *ConfiguracaoComercio `json:"configuracao"`
	}
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/config", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Configuracao, nil
}

// AtualizarConfig altera a configuração do comércio.
func (s *ComerciosService) AtualizarConfig(ctx context.Context, comercioID int64, in ConfiguracaoComercio) (*ConfiguracaoComercio, error) {
	var out struct {
		Configuracao *ConfiguracaoComercio `json:"configuracao"`
	}
	if err := s.c.Patch(ctx, fmt.Sprintf("/comercios/%d/config", comercioID), in, &out); err != nil {
		return nil, err
	}
	return out.Configuracao, nil
}

// Link devolve o código de convite vigente do comércio.
func (s *ComerciosService) Link(ctx context.Context, comercioID int64) (string, error) {
	var out struct {
		Link string `json:"link"`
	}
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/link", comercioID), nil, &out); err != nil {
		return "", err
	}
	return out.Link, nil
}

// CriarLink gera um novo código de convite, invalidando o anterior.
func (s *ComerciosService) CriarLink(ctx context.Context, comercioID int64) (string, error) {
	var out struct {
		Link string `json:"link"`
	}
	if err := s.c.Post(ctx, fmt.Sprintf("/comercios/%d/link", comercioID), nil, &out); err != nil {
		return "", err
	}
	return out.Link, nil
}
