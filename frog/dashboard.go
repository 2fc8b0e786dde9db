package frog

import (
	"context"
	"fmt"
)

// DashboardService agregados somente leitura do painel de um comércio.
type DashboardService struct {
	c *Client
}

// Cards devolve os contadores do painel: produtos zerados, produtos abaixo
// do limite e o limite global configurado.
func (s *DashboardService) Cards(ctx context.Context, comercioID int64) (*DashboardCards, error) {
	var out DashboardCards
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/dashboard/cards", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovimentacoesMensais devolve os totais mensais de entradas e saídas
// fechadas.
func (s *DashboardService) MovimentacoesMensais(ctx context.Context, comercioID int64) ([]MovimentacaoMensal, error) {
	var out itensEnvelope[MovimentacaoMensal]
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/dashboard/movimentacoes_mensais", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
