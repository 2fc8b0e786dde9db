package frog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frogstock/frog-go/frog"
)

// ──────────────────────────────────────────────────────────────────────────────
// Política de 401: um único retry após refresh, transparente para o chamador
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_Retry401UmaVez(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	// Revoga o access token; o refresh cookie continua válido, então a
	// próxima chamada deve renovar e repetir sem o chamador perceber.
	amb.srv.RevokeTokens()

	resumos, err := amb.client.Comercios.Meus(ctx)
	require.NoError(t, err, "a credencial expirada deve ser renovada de forma transparente")
	require.Len(t, resumos, 1)
	assert.Equal(t, amb.comercioID, resumos[0].ComercioID)
	assert.Equal(t, int64(1), amb.srv.RefreshCalls(), "um único refresh deve bastar")
}

func TestClient_RefreshFalhaEncerraSessao(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	amb.srv.RevokeTokens()
	amb.srv.SetRefreshFalha(true)

	_, err := amb.client.Comercios.Meus(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, frog.ErrSessaoEncerrada),
		"refresh recusado deve encerrar a sessão, não repetir indefinidamente")
	assert.Empty(t, amb.client.Store().Get(), "a credencial local deve ser descartada")
}

// Sem login não há refresh cookie: o primeiro 401 leva direto ao fim da sessão.
func TestClient_SemSessao(t *testing.T) {
	amb := novoAmbiente(t)

	_, err := amb.client.Comercios.Meus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, frog.ErrSessaoEncerrada))
}

// Uma rajada de chamadas concorrentes sobrevive à revogação: todas terminam
// sem erro, cada uma com no máximo um retry.
func TestClient_RajadaAposRevogacao(t *testing.T) {
	const n = 8
	amb := novoAmbiente(t)
	amb.login(t)
	amb.srv.RevokeTokens()

	var wg sync.WaitGroup
	erros := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, erros[i] = amb.client.Comercios.Meus(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range erros {
		assert.NoError(t, err, "chamada %d da rajada", i)
	}
	assert.GreaterOrEqual(t, amb.srv.RefreshCalls(), int64(1))
}

// Erros que não são 401 passam direto, com a mensagem verbatim do servidor.
func TestClient_ErroDeNegocioVerbatim(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	_, err := amb.client.Comercios.Criar(ctx, frog.CriarComercioRequest{Nome: "Mercearia da Ana"})
	require.Error(t, err)

	var apiErr *frog.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "já existe um comércio com esse nome", apiErr.Message,
		"a mensagem do servidor deve chegar sem tradução")
	assert.Zero(t, amb.srv.RefreshCalls(), "conflito de negócio não dispara refresh")
}
