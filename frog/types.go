package frog

import (
	"time"

	"github.com/frogstock/frog-go/pkg/money"
)

// Tipos de movimentação.
const (
	TipoEntrada = "entrada"
	TipoSaida   = "saida"
)

// Estados de movimentação.
const (
	EstadoAberta  = "aberta"
	EstadoFechada = "fechada"
)

// Usuario é o usuário autenticado, sempre obtido fresco de GET /me.
type Usuario struct {
	UsuarioID int64   `json:"usuario_id"`
	Email     string  `json:"email"`
	Nome      string  `json:"nome,omitempty"`
	Comercios []int64 `json:"comercios,omitempty"`
}

// ConfiguracaoComercio configuração aninhada de um comércio.
type ConfiguracaoComercio struct {
	UnidadePadrao     string      `json:"unidade_padrao"`
	NivelAlertaMinimo money.Valor `json:"nivel_alerta_minimo"`
	MoedaPadrao       string      `json:"moeda_padrao"`
	Linguagem         string      `json:"linguagem"`
}

// Comercio é o tenant dono de produtos, fornecedores, categorias e movimentações.
type Comercio struct {
	ComercioID     int64                 `json:"comercio_id"`
	ProprietarioID int64                 `json:"proprietario_id,omitempty"`
	Nome           string                `json:"nome"`
	Configuracao   *ConfiguracaoComercio `json:"configuracao,omitempty"`
	CriadoEm       time.Time             `json:"criado_em,omitempty"`
	AtualizadoEm   time.Time             `json:"atualizado_em,omitempty"`
}

// ComercioResumo item de GET /me/comercios.
type ComercioResumo struct {
	ComercioID     int64  `json:"comercio_id"`
	Nome           string `json:"nome"`
	IsProprietario bool   `json:"is_proprietario"`
}

// Produto é um item de estoque de um comércio.
type Produto struct {
	ProdutoID         int64       `json:"produto_id"`
	Codigo            string      `json:"codigo"`
	Nome              string      `json:"nome"`
	Preco             money.Valor `json:"preco"`
	QuantidadeEstoque int64       `json:"quantidade_estoque"`
	Tags              string      `json:"tags,omitempty"`
	UnimedID          int64       `json:"unimed_id"`
	CategoriaID       int64       `json:"categoria_id"`
	FornecedorID      int64       `json:"fornecedor_id"`
	ComercioID        int64       `json:"comercio_id"`
	CriadoEm          time.Time   `json:"criado_em,omitempty"`
	AtualizadoEm      time.Time   `json:"atualizado_em,omitempty"`
}

// Categoria entidade nomeada simples, escopada ao comércio.
type Categoria struct {
	CategoriaID int64  `json:"categoria_id"`
	Nome        string `json:"nome"`
	ComercioID  int64  `json:"comercio_id,omitempty"`
}

// Fornecedor entidade nomeada simples, escopada ao comércio.
type Fornecedor struct {
	FornecedorID int64  `json:"fornecedor_id"`
	Nome         string `json:"nome"`
	CNPJ         string `json:"cnpj,omitempty"`
	Telefone     string `json:"telefone,omitempty"`
	Email        string `json:"email,omitempty"`
	ComercioID   int64  `json:"comercio_id,omitempty"`
}

// UnidadeMedida unidade de medida (un, kg, ...). Presets globais ou por comércio.
type UnidadeMedida struct {
	UnimedID int64  `json:"unimed_id"`
	Nome     string `json:"nome"`
	Sigla    string `json:"sigla"`
}

// Movimentacao é uma movimentação de estoque. Enquanto aberta possui um
// carrinho associado; ao fechar, valor_total e total_itens ficam congelados.
type Movimentacao struct {
	MovID          int64       `json:"mov_id"`
	Tipo           string      `json:"tipo"`
	Estado         string      `json:"estado"`
	Link           string      `json:"link"`
	Codigo         int64       `json:"codigo"`
	CarrinhoID     int64       `json:"carrinho_id"`
	ComercioID     int64       `json:"comercio_id"`
	ValorTotal     money.Valor `json:"valor_total"`
	TotalItens     int64       `json:"total_itens"`
	FormaPagamento string      `json:"forma_pagamento,omitempty"`
	CriadoEm       time.Time   `json:"criado_em,omitempty"`
	FechadoEm      *time.Time  `json:"fechado_em,omitempty"`
}

// Aberta informa se a movimentação ainda aceita itens.
func (m *Movimentacao) Aberta() bool {
	return m.Estado == EstadoAberta
}

// CarrinhoItem é uma linha do carrinho. Subtotal é preco_unitario × quantidade;
// quando o servidor o omite, o cliente recalcula.
type CarrinhoItem struct {
	ItemID        int64       `json:"item_id"`
	CarrinhoID    int64       `json:"carrinho_id"`
	ProdutoID     int64       `json:"produto_id"`
	NomeProduto   string      `json:"nome_produto,omitempty"`
	PrecoUnitario money.Valor `json:"preco_unitario"`
	Quantidade    int64       `json:"quantidade"`
	Subtotal      money.Valor `json:"subtotal"`
	ComercioID    int64       `json:"comercio_id,omitempty"`
	CriadoEm      time.Time   `json:"criado_em,omitempty"`
}

// Carrinho é a coleção de itens de uma movimentação aberta.
type Carrinho struct {
	CarrinhoID   int64          `json:"carrinho_id"`
	ComercioID   int64          `json:"comercio_id,omitempty"`
	Itens        []CarrinhoItem `json:"itens"`
	ValorTotal   money.Valor    `json:"valor_total"`
	CriadoEm     time.Time      `json:"criado_em,omitempty"`
	AtualizadoEm time.Time      `json:"atualizado_em,omitempty"`
}

// DashboardCards agregados do painel de um comércio.
type DashboardCards struct {
	ZeroCount    int64        `json:"zero_count"`
	LowCount     int64        `json:"low_count"`
	LimiteGlobal *money.Valor `json:"limite_global"`
}

// MovimentacaoMensal total de entradas e saídas fechadas em um mês (formato "2006-01").
type MovimentacaoMensal struct {
	Mes      string      `json:"mes"`
	Entradas money.Valor `json:"entradas"`
	Saidas   money.Valor `json:"saidas"`
}

// Convite convite para ingressar em um comércio.
type Convite struct {
	IsValid  bool      `json:"isValid"`
	Comercio *Comercio `json:"comercio,omitempty"`
	Message  string    `json:"message,omitempty"`
}
