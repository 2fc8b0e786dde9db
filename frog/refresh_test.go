package frog_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frogstock/frog-go/frog"
)

// ──────────────────────────────────────────────────────────────────────────────
// Single-flight: N chamadas concorrentes compartilham uma única requisição
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_ConcorrentesCompartilhamUmaChamada(t *testing.T) {
	const n = 16

	var chamadas int32
	gate := make(chan struct{})
	store := frog.NewTokenStore()
	rc := frog.NewRefreshCoordinator(store, func(ctx context.Context) (string, error) {
		atomic.AddInt32(&chamadas, 1)
		<-gate // segura o voo até todos os chamadores enfileirarem
		return "token-novo", nil
	})

	var wg sync.WaitGroup
	tokens := make([]string, n)
	erros := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], erros[i] = rc.Refresh(context.Background())
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&chamadas),
		"todas as chamadas concorrentes devem compartilhar um único refresh")
	for i := 0; i < n; i++ {
		require.NoError(t, erros[i])
		assert.Equal(t, "token-novo", tokens[i])
	}
	assert.Equal(t, "token-novo", store.Get(), "o token novo deve ficar no store")
}

// ──────────────────────────────────────────────────────────────────────────────
// Falha: limpa o store e devolve ErrSessaoEncerrada com a causa
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_FalhaEncerraSessao(t *testing.T) {
	causa := fmt.Errorf("refresh token expirado")
	store := frog.NewTokenStore()
	store.Set("token-velho")
	rc := frog.NewRefreshCoordinator(store, func(ctx context.Context) (string, error) {
		return "", causa
	})

	tok, err := rc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, frog.ErrSessaoEncerrada),
		"a falha de refresh deve se apresentar como sessão encerrada")
	assert.Contains(t, err.Error(), causa.Error(), "a causa original deve estar na mensagem")
	assert.Empty(t, tok)
	assert.Empty(t, store.Get(), "a falha deve limpar a credencial do store")
}

// Refreshes sequenciais são voos independentes: uma falha não gruda.
func TestRefresh_SequenciaisIndependentes(t *testing.T) {
	var vez int32
	store := frog.NewTokenStore()
	rc := frog.NewRefreshCoordinator(store, func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&vez, 1) == 1 {
			return "", fmt.Errorf("indisponível")
		}
		return "token-da-segunda", nil
	})

	_, err := rc.Refresh(context.Background())
	require.Error(t, err)

	tok, err := rc.Refresh(context.Background())
	require.NoError(t, err, "um refresh novo após a falha deve tentar de novo")
	assert.Equal(t, "token-da-segunda", tok)
	assert.Equal(t, "token-da-segunda", store.Get())
}
