package frog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/frogtest"
	"github.com/frogstock/frog-go/pkg/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// EnsureCarrinho: busca, criação preguiçosa e link canônico
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_EnsureBuscaCarrinhoExistente(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()
	link := frogtest.SeedMovimentacaoAberta(amb.srv, amb.comercioID, frog.TipoEntrada)

	wf := amb.client.Movimentacoes.Workflow(amb.comercioID, link)
	res, err := wf.EnsureCarrinho(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Carrinho)
	assert.False(t, res.Redirecionado, "link vigente não redireciona")
	assert.Equal(t, link, res.Link)
	assert.Equal(t, frog.FaseAberta, wf.Fase())

	// Repetir é idempotente: mesmo carrinho, nenhum efeito colateral.
	res2, err := wf.EnsureCarrinho(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Carrinho.CarrinhoID, res2.Carrinho.CarrinhoID)
}

func TestWorkflow_EnsureCriaQuandoLinkDesconhecido(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	// Bookmark velho: o servidor não conhece o link e cria uma movimentação
	// nova com link próprio; o workflow migra para o canônico.
	wf := amb.client.Movimentacoes.Workflow(amb.comercioID, "bookmark0envelhecido")
	res, err := wf.EnsureCarrinho(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Carrinho)
	assert.True(t, res.Redirecionado, "link desconhecido deve sinalizar navegação para o canônico")
	assert.NotEqual(t, "bookmark0envelhecido", res.Link)
	assert.Equal(t, res.Link, wf.Link(), "o workflow passa a operar no link canônico")

	// O link canônico serve o carrinho normalmente dali em diante.
	res2, err := wf.EnsureCarrinho(ctx)
	require.NoError(t, err)
	assert.False(t, res2.Redirecionado)
	assert.Equal(t, res.Carrinho.CarrinhoID, res2.Carrinho.CarrinhoID)
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem: validação local antes de qualquer requisição
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_AddItemValidaSemRede(t *testing.T) {
	// Cliente apontado para lugar nenhum: se a validação deixasse passar,
	// o teste falharia com erro de conexão em vez de ErrEntradaInvalida.
	client := frog.NewClient(frog.Options{BaseURL: "http://127.0.0.1:1"})
	wf := client.Movimentacoes.Workflow(1, "qualquerlink16aa")
	ctx := context.Background()

	_, err := wf.AddItem(ctx, 0, 5)
	assert.True(t, errors.Is(err, frog.ErrEntradaInvalida), "produto não selecionado")

	_, err = wf.AddItem(ctx, 3, 0)
	assert.True(t, errors.Is(err, frog.ErrEntradaInvalida), "quantidade zero")

	_, err = wf.AddItem(ctx, 3, -2)
	assert.True(t, errors.Is(err, frog.ErrEntradaInvalida), "quantidade negativa")

	_, err = wf.RemoveItem(ctx, 0)
	assert.True(t, errors.Is(err, frog.ErrEntradaInvalida), "item inválido na remoção")

	_, err = wf.Finalizar(ctx, "transferencia")
	assert.True(t, errors.Is(err, frog.ErrEntradaInvalida), "tipo desconhecido")
}

// ──────────────────────────────────────────────────────────────────────────────
// O cenário clássico: 3 × 10.50 = 31.50, do carrinho ao fechamento
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_EntradaCompleta(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()
	produtoID := amb.seedProduto(t, "Café torrado", "10.50", 7)

	mov, err := amb.client.Movimentacoes.Abrir(ctx, amb.comercioID, frog.TipoEntrada)
	require.NoError(t, err)
	require.NotEmpty(t, mov.Link)
	assert.Len(t, mov.Link, 16)

	wf := amb.client.Movimentacoes.Workflow(amb.comercioID, mov.Link)

	// AddItem sem EnsureCarrinho prévio garante o carrinho sozinho.
	cart, err := wf.AddItem(ctx, produtoID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Itens, 1)
	assert.Equal(t, "31.50", cart.Itens[0].Subtotal.String(),
		"três unidades de 10.50 somam exatamente 31.50")
	assert.Equal(t, "31.50", cart.ValorTotal.String())

	// Adicionar o mesmo produto de novo funde as quantidades.
	cart, err = wf.AddItem(ctx, produtoID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Itens, 1, "mesmo produto não vira linha duplicada")
	assert.Equal(t, int64(5), cart.Itens[0].Quantidade)
	assert.Equal(t, "52.50", cart.ValorTotal.String())

	fechada, err := wf.Finalizar(ctx, frog.TipoEntrada)
	require.NoError(t, err)
	assert.Equal(t, frog.EstadoFechada, fechada.Estado)
	assert.Equal(t, int64(5), fechada.TotalItens)
	assert.Equal(t, "52.50", fechada.ValorTotal.String(), "o total congela no fechamento")
	assert.NotNil(t, fechada.FechadoEm)
	assert.Equal(t, frog.FaseFechada, wf.Fase())

	// Entrada fechada soma ao estoque.
	p, err := amb.client.Produtos.Get(ctx, amb.comercioID, produtoID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), p.QuantidadeEstoque)

	// Depois de fechada, o workflow recusa mutações localmente.
	_, err = wf.AddItem(ctx, produtoID, 1)
	assert.True(t, errors.Is(err, frog.ErrMovimentacaoFechada))
	_, err = wf.Finalizar(ctx, frog.TipoEntrada)
	assert.True(t, errors.Is(err, frog.ErrMovimentacaoFechada))

	// E o link deixa de servir carrinho para quem chega depois.
	outro := amb.client.Movimentacoes.Workflow(amb.comercioID, wf.Link())
	_, err = outro.EnsureCarrinho(ctx)
	var apiErr *frog.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)
}

func TestWorkflow_SaidaComEstoqueInsuficiente(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()
	produtoID := amb.seedProduto(t, "Farinha", "8.00", 2)

	mov, err := amb.client.Movimentacoes.Abrir(ctx, amb.comercioID, frog.TipoSaida)
	require.NoError(t, err)
	wf := amb.client.Movimentacoes.Workflow(amb.comercioID, mov.Link)

	_, err = wf.AddItem(ctx, produtoID, 5)
	require.NoError(t, err, "adicionar ao carrinho não mexe no estoque ainda")

	_, err = wf.Finalizar(ctx, frog.TipoSaida)
	var apiErr *frog.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "estoque insuficiente", apiErr.Message)
	assert.NotEqual(t, frog.FaseFechada, wf.Fase(), "a recusa mantém a movimentação aberta")

	// O estoque segue intacto.
	p, err := amb.client.Produtos.Get(ctx, amb.comercioID, produtoID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.QuantidadeEstoque)
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalização: os três formatos de resposta convergem no mesmo estado
// ──────────────────────────────────────────────────────────────────────────────

func TestWorkflow_FormatosDeRespostaConvergem(t *testing.T) {
	shapes := []struct {
		nome  string
		shape frogtest.CarrinhoShape
	}{
		{"objeto completo", frogtest.ShapeCarrinho},
		{"array de itens", frogtest.ShapeItens},
		{"item único", frogtest.ShapeItem},
	}
	for _, c := range shapes {
		t.Run(c.nome, func(t *testing.T) {
			amb := novoAmbiente(t)
			amb.login(t)
			ctx := context.Background()
			cafe := amb.seedProduto(t, "Café", "10.50", 10)
			acucar := amb.seedProduto(t, "Açúcar", "4.25", 10)
			amb.srv.SetCarrinhoShape(c.shape)

			mov, err := amb.client.Movimentacoes.Abrir(ctx, amb.comercioID, frog.TipoEntrada)
			require.NoError(t, err)
			wf := amb.client.Movimentacoes.Workflow(amb.comercioID, mov.Link)

			_, err = wf.AddItem(ctx, cafe, 3)
			require.NoError(t, err)
			cart, err := wf.AddItem(ctx, acucar, 2)
			require.NoError(t, err)

			// Independente do formato, o estado local honra os invariantes:
			// subtotal = preço × quantidade e total = soma dos subtotais.
			require.Len(t, cart.Itens, 2)
			soma := money.Zero
			for _, it := range cart.Itens {
				assert.True(t, it.Subtotal.Equal(it.PrecoUnitario.MulInt(it.Quantidade)),
					"subtotal do item %d", it.ProdutoID)
				soma = soma.Add(it.Subtotal)
			}
			assert.True(t, cart.ValorTotal.Equal(soma), "valor_total é a soma dos subtotais")
			assert.Equal(t, "40.00", cart.ValorTotal.String())

			// A remoção também converge (no formato de item único o servidor
			// responde só uma mensagem e o cliente rebusca o carrinho).
			var itemCafe int64
			for _, it := range cart.Itens {
				if it.ProdutoID == cafe {
					itemCafe = it.ItemID
				}
			}
			require.NotZero(t, itemCafe)
			cart, err = wf.RemoveItem(ctx, itemCafe)
			require.NoError(t, err)
			require.Len(t, cart.Itens, 1)
			assert.Equal(t, acucar, cart.Itens[0].ProdutoID)
			assert.Equal(t, "8.50", cart.ValorTotal.String())
		})
	}
}
