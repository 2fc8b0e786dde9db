package frog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/pkg/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Comércios: criação em duas etapas e configuração
// ──────────────────────────────────────────────────────────────────────────────

func TestComercios_CriarComConfiguracao(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	criado, err := amb.client.Comercios.Criar(ctx, frog.CriarComercioRequest{
		Nome: "Empório Central",
		Configuracao: &frog.ConfiguracaoComercio{
			UnidadePadrao:     "kg",
			NivelAlertaMinimo: money.FromInt(5),
			MoedaPadrao:       "BRL",
			Linguagem:         "pt-BR",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, criado)
	assert.NotZero(t, criado.ComercioID)
	require.NotNil(t, criado.Configuracao)
	assert.Equal(t, "kg", criado.Configuracao.UnidadePadrao)

	resumos, err := amb.client.Comercios.Meus(ctx)
	require.NoError(t, err)
	assert.Len(t, resumos, 2, "o comércio novo deve aparecer na lista do usuário")
}

func TestComercios_AtualizarConfig(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	cfg, err := amb.client.Comercios.Config(ctx, amb.comercioID)
	require.NoError(t, err)
	assert.Equal(t, "un", cfg.UnidadePadrao, "configuração padrão do seed")

	cfg.NivelAlertaMinimo = money.FromInt(10)
	atualizada, err := amb.client.Comercios.AtualizarConfig(ctx, amb.comercioID, *cfg)
	require.NoError(t, err)
	assert.Equal(t, "10.00", atualizada.NivelAlertaMinimo.String())

	relida, err := amb.client.Comercios.Config(ctx, amb.comercioID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", relida.NivelAlertaMinimo.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Convites: gerar link, consultar sem sessão, aceitar
// ──────────────────────────────────────────────────────────────────────────────

func TestConvites_FluxoCompleto(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	codigo, err := amb.client.Comercios.CriarLink(ctx, amb.comercioID)
	require.NoError(t, err)
	require.NotEmpty(t, codigo)

	vigente, err := amb.client.Comercios.Link(ctx, amb.comercioID)
	require.NoError(t, err)
	assert.Equal(t, codigo, vigente)

	// Gerar de novo invalida o anterior.
	novo, err := amb.client.Comercios.CriarLink(ctx, amb.comercioID)
	require.NoError(t, err)
	assert.NotEqual(t, codigo, novo)

	// A consulta do convite é pública (tela de aceite antes do login).
	anon := novoClienteDe(amb)
	conv, err := anon.client.Convites.Get(ctx, novo)
	require.NoError(t, err)
	assert.True(t, conv.IsValid)
	require.NotNil(t, conv.Comercio)
	assert.Equal(t, "Mercearia da Ana", conv.Comercio.Nome)

	conv, err = anon.client.Convites.Get(ctx, codigo)
	require.NoError(t, err)
	assert.False(t, conv.IsValid, "o código invalidado deve ser recusado")
	assert.NotEmpty(t, conv.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo: produtos, categorias, fornecedores e unidades
// ──────────────────────────────────────────────────────────────────────────────

func TestProdutos_CRUD(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	criado, err := amb.client.Produtos.Criar(ctx, amb.comercioID, frog.CriarProdutoRequest{
		Codigo:     "CAF-001",
		Nome:       "Café torrado 500g",
		Preco:      money.MustParse("10,50"),
		Quantidade: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.50", criado.Preco.String(),
		"o preço digitado com vírgula chega normalizado")

	nome := "Café torrado moído 500g"
	preco := money.MustParse("11.90")
	atualizado, err := amb.client.Produtos.Atualizar(ctx, amb.comercioID, criado.ProdutoID,
		frog.AtualizarProdutoRequest{Nome: &nome, Preco: &preco})
	require.NoError(t, err)
	assert.Equal(t, nome, atualizado.Nome)
	assert.Equal(t, "11.90", atualizado.Preco.String())
	assert.Equal(t, int64(7), atualizado.QuantidadeEstoque,
		"a atualização não mexe no estoque, só movimentações mexem")

	lista, err := amb.client.Produtos.Listar(ctx, amb.comercioID)
	require.NoError(t, err)
	require.Len(t, lista, 1)

	require.NoError(t, amb.client.Produtos.Excluir(ctx, amb.comercioID, criado.ProdutoID))
	lista, err = amb.client.Produtos.Listar(ctx, amb.comercioID)
	require.NoError(t, err)
	assert.Empty(t, lista)
}

func TestCategorias_ExclusaoEmUso(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	cat, err := amb.client.Categorias.Criar(ctx, amb.comercioID, "Bebidas")
	require.NoError(t, err)

	_, err = amb.client.Produtos.Criar(ctx, amb.comercioID, frog.CriarProdutoRequest{
		Codigo:      "SUC-001",
		Nome:        "Suco de uva",
		Preco:       money.MustParse("7.00"),
		CategoriaID: cat.CategoriaID,
	})
	require.NoError(t, err)

	err = amb.client.Categorias.Excluir(ctx, amb.comercioID, cat.CategoriaID)
	var apiErr *frog.APIError
	require.ErrorAs(t, err, &apiErr, "categoria em uso não pode ser excluída")
	assert.Equal(t, 409, apiErr.Status)

	renomeada, err := amb.client.Categorias.Atualizar(ctx, amb.comercioID, cat.CategoriaID, "Bebidas frias")
	require.NoError(t, err)
	assert.Equal(t, "Bebidas frias", renomeada.Nome)
}

func TestUnidades_PresetsGlobais(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)

	unidades, err := amb.client.Unidades.Globais(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, unidades)

	siglas := make([]string, 0, len(unidades))
	for _, u := range unidades {
		siglas = append(siglas, u.Sigla)
	}
	assert.Contains(t, siglas, "un")
	assert.Contains(t, siglas, "kg")
}

func TestFornecedores_CriarEListar(t *testing.T) {
	amb := novoAmbiente(t)
	amb.login(t)
	ctx := context.Background()

	criado, err := amb.client.Fornecedores.Criar(ctx, amb.comercioID, frog.CriarFornecedorRequest{
		Nome:     "Distribuidora Sul",
		CNPJ:     "12.345.678/0001-90",
		Telefone: "(51) 3333-0000",
	})
	require.NoError(t, err)
	assert.NotZero(t, criado.FornecedorID)

	lista, err := amb.client.Fornecedores.Listar(ctx, amb.comercioID)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "Distribuidora Sul", lista[0].Nome)
}
