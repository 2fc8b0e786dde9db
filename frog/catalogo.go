package frog

import (
	"context"
	"fmt"

	"github.com/frogstock/frog-go/pkg/money"
)

// Serviços CRUD do catálogo de um comércio: produtos, categorias,
// fornecedores e unidades de medida. Puro encanamento sobre o Client.

// ProdutosService CRUD de produtos.
type ProdutosService struct {
	c *Client
}

type itensEnvelope[T any] struct {
	Items []T `json:"items"`
}

// Listar lista os produtos do comércio.
func (s *ProdutosService) Listar(ctx context.Context, comercioID int64) ([]Produto, error) {
	var out itensEnvelope[Produto]
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/produtos", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Get busca um produto por id.
func (s *ProdutosService) Get(ctx context.Context, comercioID, produtoID int64) (*Produto, error) {
	var out struct {
		Produto *Produto `json:"produto"`
	}
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/produtos/%d", comercioID, produtoID), nil, &out); err != nil {
		return nil, err
	}
	return out.Produto, nil
}

// CriarProdutoRequest corpo de criação de produto.
type CriarProdutoRequest struct {
	Codigo       string      `json:"codigo"`
	Nome         string      `json:"nome"`
	Preco        money.Valor `json:"preco"`
	Quantidade   int64       `json:"quantidade_estoque"`
	Tags         string      `json:"tags,omitempty"`
	UnimedID     int64       `json:"unimed_id"`
	CategoriaID  int64       `json:"categoria_id"`
	FornecedorID int64       `json:"fornecedor_id"`
}

// Criar cria um produto no comércio.
func (s *ProdutosService) Criar(ctx context.Context, comercioID int64, in CriarProdutoRequest) (*Produto, error) {
	var out struct {
		Produto *Produto `json:"produto"`
	}
	if err := s.c.Post(ctx, fmt.Sprintf("/comercios/%d/produtos", comercioID), in, &out); err != nil {
		return nil, err
	}
	return out.Produto, nil
}

// AtualizarProdutoRequest campos alteráveis de um produto. Ponteiros nil são
// ignorados.
type AtualizarProdutoRequest struct {
	Nome         *string      `json:"nome,omitempty"`
	Preco        *money.Valor `json:"preco,omitempty"`
	Tags         *string      `json:"tags,omitempty"`
	UnimedID     *int64       `json:"unimed_id,omitempty"`
	CategoriaID  *int64       `json:"categoria_id,omitempty"`
	FornecedorID *int64       `json:"fornecedor_id,omitempty"`
}

// Atualizar altera um produto.
func (s *ProdutosService) Atualizar(ctx context.Context, comercioID, produtoID int64, in AtualizarProdutoRequest) (*Produto, error) {
	var out struct {
		Produto *Produto `json:"produto"`
	}
	if err := s.c.Put(ctx, fmt.Sprintf("/comercios/%d/produtos/%d", comercioID, produtoID), in, &out); err != nil {
		return nil, err
	}
	return out.Produto, nil
}

// Excluir remove um produto.
func (s *ProdutosService) Excluir(ctx context.Context, comercioID, produtoID int64) error {
	return s.c.Delete(ctx, fmt.Sprintf("/comercios/%d/produtos/%d", comercioID, produtoID), nil, nil)
}

// CategoriasService CRUD de categorias.
type CategoriasService struct {
	c *Client
}

// Listar lista as categorias do comércio.
func (s *CategoriasService) Listar(ctx context.Context, comercioID int64) ([]Categoria, error) {
	var out itensEnvelope[Categoria]
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/categorias", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Criar cria uma categoria.
func (s *CategoriasService) Criar(ctx context.Context, comercioID int64, nome string) (*Categoria, error) {
	var out struct {
		Categoria *Categoria `json:"categoria"`
	}
	body := map[string]string{"nome": nome}
	if err := s.c.Post(ctx, fmt.Sprintf("/comercios/%d/categorias", comercioID), body, &out); err != nil {
		return nil, err
	}
	return out.Categoria, nil
}

// Atualizar renomeia uma categoria.
func (s *CategoriasService) Atualizar(ctx context.Context, comercioID, categoriaID int64, nome string) (*Categoria, error) {
	var out struct {
		Categoria *Categoria `json:"categoria"`
	}
	body := map[string]string{"nome": nome}
	if err := s.c.Put(ctx, fmt.Sprintf("/comercios/%d/categorias/%d", comercioID, categoriaID), body, &out); err != nil {
		return nil, err
	}
	return out.Categoria, nil
}

// Excluir remove uma categoria. Categoria em uso por produtos retorna o
// erro de conflito do servidor sem tradução.
func (s *CategoriasService) Excluir(ctx context.Context, comercioID, categoriaID int64) error {
	return s.c.Delete(ctx, fmt.Sprintf("/comercios/%d/categorias/%d", comercioID, categoriaID), nil, nil)
}

// FornecedoresService CRUD de fornecedores.
type FornecedoresService struct {
	c *Client
}

// Listar lista os fornecedores do comércio.
func (s *FornecedoresService) Listar(ctx context.Context, comercioID int64) ([]Fornecedor, error) {
	var out itensEnvelope[Fornecedor]
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/fornecedores", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CriarFornecedorRequest corpo de criação de fornecedor.
type CriarFornecedorRequest struct {
	Nome     string `json:"nome"`
	CNPJ     string `json:"cnpj,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Criar cria um fornecedor.
func (s *FornecedoresService) Criar(ctx context.Context, comercioID int64, in CriarFornecedorRequest) (*Fornecedor, error) {
	var out struct {
		Fornecedor *Fornecedor `json:"fornecedor"`
	}
	if err := s.c.Post(ctx, fmt.Sprintf("/comercios/%d/fornecedores", comercioID), in, &out); err != nil {
		return nil, err
	}
	return out.Fornecedor, nil
}

// Atualizar altera um fornecedor.
func (s *FornecedoresService) Atualizar(ctx context.Context, comercioID, fornecedorID int64, in CriarFornecedorRequest) (*Fornecedor, error) {
	var out struct {
		Fornecedor *Fornecedor `json:"fornecedor"`
	}
	if err := s.c.Put(ctx, fmt.Sprintf("/comercios/%d/fornecedores/%d", comercioID, fornecedorID), in, &out); err != nil {
		return nil, err
	}
	return out.Fornecedor, nil
}

// Excluir remove um fornecedor.
func (s *FornecedoresService) Excluir(ctx context.Context, comercioID, fornecedorID int64) error {
	return s.c.Delete(ctx, fmt.Sprintf("/comercios/%d/fornecedores/%d", comercioID, fornecedorID), nil, nil)
}

// UnidadesService unidades de medida, globais (presets) e por comércio.
type UnidadesService struct {
	c *Client
}

// Globais lista os presets globais de unidade (un, kg, ...).
func (s *UnidadesService) Globais(ctx context.Context) ([]UnidadeMedida, error) {
	var out itensEnvelope[UnidadeMedida]
	if err := s.c.Get(ctx, "/unidades", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Listar lista as unidades disponíveis no comércio.
func (s *UnidadesService) Listar(ctx context.Context, comercioID int64) ([]UnidadeMedida, error) {
	var out itensEnvelope[UnidadeMedida]
	if err := s.c.Get(ctx, fmt.Sprintf("/comercios/%d/unidades", comercioID), nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
