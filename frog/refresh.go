package frog

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// RefreshFunc troca a credencial expirada por uma nova no backend.
type RefreshFunc func(ctx context.Context) (string, error)

// RefreshCoordinator serializa tentativas de refresh: chamadas concorrentes
// compartilham uma única requisição em voo e recebem todas o mesmo resultado.
// É o único ponto do cliente com contrato explícito de exclusão mútua.
type RefreshCoordinator struct {
	group singleflight.Group
	store *TokenStore
	fn    RefreshFunc
}

// NewRefreshCoordinator constrói o coordenador. fn é injetada para que os
// testes controlem o backend de forma determinística.
func NewRefreshCoordinator(store *TokenStore, fn RefreshFunc) *RefreshCoordinator {
	return &RefreshCoordinator{store: store, fn: fn}
}

// Refresh obtém uma credencial nova. Em caso de sucesso ela é instalada no
// TokenStore e devolvida a todos os chamadores enfileirados; em caso de
// falha o store é limpo e todos recebem ErrSessaoEncerrada com a causa.
//
// O contexto da chamada que inicia o refresh governa a requisição; chamadas
// que apenas aguardam compartilham o resultado dela.
func (r *RefreshCoordinator) Refresh(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		token, err := r.fn(ctx)
		if err != nil {
			r.store.Set("")
			return nil, fmt.Errorf("%w: %v", ErrSessaoEncerrada, err)
		}
		r.store.Set(token)
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
