package frog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/frogtest"
	"github.com/frogstock/frog-go/pkg/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	testEmail = "ana@frog.dev"
	testSenha = "s3nh4-forte"
)

// ambiente é um backend frogtest com um usuário e um comércio semeados, mais
// um cliente e uma sessão apontados para ele.
type ambiente struct {
	srv        *frogtest.Server
	client     *frog.Client
	sess       *frog.Session
	usuarioID  int64
	comercioID int64
}

func novoAmbiente(t *testing.T) *ambiente {
	t.Helper()
	srv, err := frogtest.New()
	require.NoError(t, err, "o servidor de teste deve subir")
	t.Cleanup(srv.Close)

	usuarioID, err := frogtest.SeedUsuario(srv, testEmail, testSenha, "Ana")
	require.NoError(t, err)
	comercioID := frogtest.SeedComercio(srv, usuarioID, "Mercearia da Ana")

	client := frog.NewClient(frog.Options{BaseURL: srv.URL()})
	sess := frog.NewSession(client, nil)
	return &ambiente{
		srv:        srv,
		client:     client,
		sess:       sess,
		usuarioID:  usuarioID,
		comercioID: comercioID,
	}
}

// login autentica a sessão do ambiente, falhando o teste se recusada.
func (a *ambiente) login(t *testing.T) {
	t.Helper()
	require.True(t, a.sess.Login(context.Background(), testEmail, testSenha),
		"o login com as credenciais semeadas deve ser aceito")
}

// novoClienteDe cria um segundo cliente e sessão contra o mesmo servidor,
// simulando outro processo (sem cookie nem credencial compartilhados).
func novoClienteDe(a *ambiente) *ambiente {
	client := frog.NewClient(frog.Options{BaseURL: a.srv.URL()})
	return &ambiente{
		srv:        a.srv,
		client:     client,
		sess:       frog.NewSession(client, nil),
		usuarioID:  a.usuarioID,
		comercioID: a.comercioID,
	}
}

// seedProduto cria um produto no comércio do ambiente.
func (a *ambiente) seedProduto(t *testing.T, nome, preco string, estoque int64) int64 {
	t.Helper()
	return frogtest.SeedProduto(a.srv, a.comercioID, nome, money.MustParse(preco), estoque)
}
