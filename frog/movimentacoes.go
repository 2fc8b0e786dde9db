package frog

import (
	"context"
	"fmt"
)

// MovimentacoesService listagem e abertura de movimentações de estoque.
// A manipulação do carrinho de uma movimentação aberta fica no
// CarrinhoWorkflow.
type MovimentacoesService struct {
	c *Client
}

type movimentacoesEnvelope struct {
	Movimentacoes []Movimentacao `json:"movimentacoes"`
}

// Listar devolve o histórico completo de movimentações do comércio.
func (s *MovimentacoesService) Listar(ctx context.Context, comercioID int64) ([]Movimentacao, error) {
	var out movimentacoesEnvelope
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/movimentacoes", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Movimentacoes, nil
}

// Abertas devolve só as movimentações ainda abertas (retomáveis pelo link).
func (s *MovimentacoesService) Abertas(ctx context.Context, comercioID int64) ([]Movimentacao, error) {
	var out movimentacoesEnvelope
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/movimentacoes/abertas", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Movimentacoes, nil
}

// Abrir cria uma movimentação vazia do tipo dado (entrada ou saida), com
// carrinho e link gerados pelo servidor.
func (s *MovimentacoesService) Abrir(ctx context.Context, comercioID int64, tipo string) (*Movimentacao, error) {
	if tipo != TipoEntrada && tipo != TipoSaida {
		return nil, fmt.Errorf("%w: tipo %q", ErrEntradaInvalida, tipo)
	}
	var out struct {
		Movimentacao *Movimentacao `json:"movimentacao"`
	}
	body := map[string]string{"tipo": tipo}
	if err := s.c.Post(ctx, fmt.Sprintf("/comercios/%d/movimentacoes", comercioID), body, &out); err != nil {
		return nil, err
	}
	return out.Movimentacao, nil
}

// Workflow abre um CarrinhoWorkflow para a movimentação identificada pelo
// link.
func (s *MovimentacoesService) Workflow(comercioID int64, link string) *CarrinhoWorkflow {
	return NewCarrinhoWorkflow(s.c, comercioID, link)
}
