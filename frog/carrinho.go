package frog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/frogstock/frog-go/pkg/money"
)

// FaseWorkflow fase do ciclo de vida de um CarrinhoWorkflow.
type FaseWorkflow int

const (
	// FaseNaoIniciada nenhum carrinho carregado ainda.
	FaseNaoIniciada FaseWorkflow = iota
	// FaseAberta carrinho anexado, aceita itens.
	FaseAberta
	// FaseFechada movimentação finalizada; mutações são recusadas.
	FaseFechada
)

// EnsureResult resultado de EnsureCarrinho. Quando o servidor devolve uma
// movimentação com link diferente do pedido, Redirecionado indica que o
// chamador deve navegar para o Link canônico.
type EnsureResult struct {
	Carrinho      *Carrinho
	Movimentacao  *Movimentacao
	Link          string
	Redirecionado bool
}

// CarrinhoWorkflow gerencia o ciclo de uma movimentação de estoque:
// garantir o carrinho, adicionar e remover itens, finalizar. As mutações são
// serializadas por instância, então duas adições disparadas em sequência
// nunca aplicam respostas fora de ordem.
type CarrinhoWorkflow struct {
	mu         sync.Mutex
	c          *Client
	comercioID int64
	link       string
	carrinho   *Carrinho
	mov        *Movimentacao
	fase       FaseWorkflow
}

// NewCarrinhoWorkflow cria o workflow para a movimentação do link dado.
func NewCarrinhoWorkflow(c *Client, comercioID int64, link string) *CarrinhoWorkflow {
	return &CarrinhoWorkflow{c: c, comercioID: comercioID, link: link}
}

// Link devolve o link corrente (canônico após um redirecionamento).
func (w *CarrinhoWorkflow) Link() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.link
}

// Fase devolve a fase atual do workflow.
func (w *CarrinhoWorkflow) Fase() FaseWorkflow {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fase
}

// Carrinho devolve o último estado conhecido do carrinho (pode ser nil).
func (w *CarrinhoWorkflow) Carrinho() *Carrinho {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.carrinho
}

func (w *CarrinhoWorkflow) query() url.Values {
	q := url.Values{}
	q.Set("comercio_id", strconv.FormatInt(w.comercioID, 10))
	return q
}

// EnsureCarrinho busca o carrinho da movimentação; se o servidor sinaliza
// que ele não existe (404, 400 ou mensagem de "não encontrado"), cria um
// via POST e segue com o criado. A criação é idempotente no servidor, então
// repetir a operação devolve sempre o mesmo carrinho.
func (w *CarrinhoWorkflow) EnsureCarrinho(ctx context.Context) (*EnsureResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ensureLocked(ctx)
}

func (w *CarrinhoWorkflow) ensureLocked(ctx context.Context) (*EnsureResult, error) {
	if w.fase == FaseFechada {
		return nil, ErrMovimentacaoFechada
	}

	var raw json.RawMessage
	err := w.c.Get(ctx, "/movimentacoes/"+w.link+"/carrinho", w.query(), &raw)
	if err != nil {
		if !carrinhoAusente(err) {
			return nil, err
		}
		body := map[string]int64{"comercio_id": w.comercioID}
		if err := w.c.Post(ctx, "/movimentacoes/"+w.link+"/carrinho", body, &raw); err != nil {
			return nil, err
		}
	}

	p := decodeCarrinhoPayload(raw)
	if p.kind != payloadCarrinho || p.carrinho == nil {
		return nil, fmt.Errorf("%w: resposta de ensure sem carrinho", ErrFormatoDesconhecido)
	}

	res := &EnsureResult{Carrinho: p.carrinho, Movimentacao: p.movimentacao, Link: w.link}
	if p.movimentacao != nil && p.movimentacao.Link != "" && p.movimentacao.Link != w.link {
		// Link desatualizado (bookmark velho); o canônico vale a partir daqui.
		w.link = p.movimentacao.Link
		res.Link = p.movimentacao.Link
		res.Redirecionado = true
	}

	normalizarCarrinho(p.carrinho)
	w.carrinho = p.carrinho
	w.mov = p.movimentacao
	if p.movimentacao != nil && !p.movimentacao.Aberta() {
		w.fase = FaseFechada
	} else {
		w.fase = FaseAberta
	}
	return res, nil
}

// AddItem valida produto e quantidade localmente e adiciona o item ao
// carrinho. Valida antes de qualquer requisição: produto zero ou quantidade
// não positiva nunca chegam à rede.
func (w *CarrinhoWorkflow) AddItem(ctx context.Context, produtoID int64, quantidade int64) (*Carrinho, error) {
	if produtoID <= 0 {
		return nil, fmt.Errorf("%w: selecione um produto", ErrEntradaInvalida)
	}
	if quantidade <= 0 {
		return nil, fmt.Errorf("%w: quantidade deve ser um inteiro positivo", ErrEntradaInvalida)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fase == FaseFechada {
		return nil, ErrMovimentacaoFechada
	}
	if w.carrinho == nil {
		if _, err := w.ensureLocked(ctx); err != nil {
			return nil, err
		}
	}

	body := map[string]int64{"comercio_id": w.comercioID, "quantidade": quantidade}
	var raw json.RawMessage
	path := fmt.Sprintf("/movimentacoes/%s/carrinho/p/%d", w.link, produtoID)
	if err := w.c.Post(ctx, path, body, &raw); err != nil {
		return nil, err
	}
	if err := w.aplicarResposta(ctx, raw); err != nil {
		return nil, err
	}
	return w.carrinho, nil
}

// RemoveItem remove um item do carrinho pelo id.
func (w *CarrinhoWorkflow) RemoveItem(ctx context.Context, itemID int64) (*Carrinho, error) {
	if itemID <= 0 {
		return nil, fmt.Errorf("%w: item inválido", ErrEntradaInvalida)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fase == FaseFechada {
		return nil, ErrMovimentacaoFechada
	}
	if w.carrinho == nil {
		return nil, fmt.Errorf("%w: nenhum carrinho ativo", ErrEntradaInvalida)
	}

	var raw json.RawMessage
	path := fmt.Sprintf("/movimentacoes/%s/carrinho/item/%d", w.link, itemID)
	if err := w.c.Delete(ctx, path, w.query(), &raw); err != nil {
		return nil, err
	}
	if err := w.aplicarResposta(ctx, raw); err != nil {
		return nil, err
	}
	return w.carrinho, nil
}

// Finalizar registra a movimentação referenciando o carrinho e encerra o
// ciclo: o servidor fecha a movimentação, congela os totais e o link deixa
// de servir carrinho.
func (w *CarrinhoWorkflow) Finalizar(ctx context.Context, tipo string) (*Movimentacao, error) {
	if tipo != TipoEntrada && tipo != TipoSaida {
		return nil, fmt.Errorf("%w: tipo %q", ErrEntradaInvalida, tipo)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fase == FaseFechada {
		return nil, ErrMovimentacaoFechada
	}
	if w.carrinho == nil {
		return nil, fmt.Errorf("%w: nenhum carrinho ativo para salvar", ErrEntradaInvalida)
	}

	body := map[string]any{
		"tipo":        tipo,
		"carrinho_id": w.carrinho.CarrinhoID,
		"comercio_id": w.comercioID,
	}
	var out struct {
		Movimentacao *Movimentacao `json:"movimentacao"`
	}
	if err := w.c.Post(ctx, "/movimentacoes", body, &out); err != nil {
		return nil, err
	}
	w.mov = out.Movimentacao
	w.fase = FaseFechada
	return out.Movimentacao, nil
}

// aplicarResposta funde a resposta do servidor no estado local conforme o
// formato reconhecido; formato ambíguo rebusca o carrinho inteiro para
// garantir consistência. Chamar com o mutex tomado.
func (w *CarrinhoWorkflow) aplicarResposta(ctx context.Context, raw json.RawMessage) error {
	p := decodeCarrinhoPayload(raw)
	switch p.kind {
	case payloadCarrinho:
		normalizarCarrinho(p.carrinho)
		w.carrinho = p.carrinho
		if p.movimentacao != nil {
			w.mov = p.movimentacao
		}
	case payloadItens:
		w.carrinho.Itens = p.itens
		normalizarCarrinho(w.carrinho)
	case payloadItem:
		upsertItem(w.carrinho, *p.item)
		normalizarCarrinho(w.carrinho)
	default:
		return w.refetchLocked(ctx)
	}
	return nil
}

// refetchLocked rebusca o carrinho inteiro do servidor. Chamar com o mutex
// tomado.
func (w *CarrinhoWorkflow) refetchLocked(ctx context.Context) error {
	var raw json.RawMessage
	if err := w.c.Get(ctx, "/movimentacoes/"+w.link+"/carrinho", w.query(), &raw); err != nil {
		return err
	}
	p := decodeCarrinhoPayload(raw)
	if p.kind != payloadCarrinho || p.carrinho == nil {
		return fmt.Errorf("%w: rebusca sem carrinho", ErrFormatoDesconhecido)
	}
	normalizarCarrinho(p.carrinho)
	w.carrinho = p.carrinho
	if p.movimentacao != nil {
		w.mov = p.movimentacao
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalização das respostas do carrinho
// ──────────────────────────────────────────────────────────────────────────────

// O backend devolve o carrinho em três formatos observados: objeto completo
// (embrulhado em {"carrinho": ...} ou não), array puro de itens, ou item
// único. decodeCarrinhoPayload resolve tudo para uma união etiquetada.

type carrinhoPayloadKind int

const (
	payloadDesconhecido carrinhoPayloadKind = iota
	payloadCarrinho
	payloadItens
	payloadItem
)

type carrinhoPayload struct {
	kind         carrinhoPayloadKind
	carrinho     *Carrinho
	movimentacao *Movimentacao
	itens        []CarrinhoItem
	item         *CarrinhoItem
}

func decodeCarrinhoPayload(raw json.RawMessage) carrinhoPayload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return carrinhoPayload{kind: payloadDesconhecido}
	}

	if trimmed[0] == '[' {
		var itens []CarrinhoItem
		if err := json.Unmarshal(trimmed, &itens); err != nil {
			return carrinhoPayload{kind: payloadDesconhecido}
		}
		return carrinhoPayload{kind: payloadItens, itens: itens}
	}

	var probe struct {
		Carrinho     *Carrinho      `json:"carrinho"`
		Movimentacao *Movimentacao  `json:"movimentacao"`
		Itens        []CarrinhoItem `json:"itens"`
		CarrinhoID   *int64         `json:"carrinho_id"`
		ItemID       *int64         `json:"item_id"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return carrinhoPayload{kind: payloadDesconhecido}
	}

	switch {
	case probe.Carrinho != nil:
		return carrinhoPayload{kind: payloadCarrinho, carrinho: probe.Carrinho, movimentacao: probe.Movimentacao}
	case probe.ItemID != nil:
		// item_id na raiz distingue item único de carrinho sem embrulho
		var item CarrinhoItem
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return carrinhoPayload{kind: payloadDesconhecido}
		}
		return carrinhoPayload{kind: payloadItem, item: &item}
	case probe.CarrinhoID != nil:
		var cart Carrinho
		if err := json.Unmarshal(trimmed, &cart); err != nil {
			return carrinhoPayload{kind: payloadDesconhecido}
		}
		return carrinhoPayload{kind: payloadCarrinho, carrinho: &cart}
	case probe.Itens != nil:
		return carrinhoPayload{kind: payloadItens, itens: probe.Itens}
	}
	return carrinhoPayload{kind: payloadDesconhecido}
}

// normalizarCarrinho restabelece os invariantes monetários: subtotal de
// cada item é preço unitário × quantidade (recalculado quando o servidor o
// omite) e valor_total é a soma dos subtotais.
func normalizarCarrinho(c *Carrinho) {
	if c == nil {
		return
	}
	total := money.Zero
	for i := range c.Itens {
		it := &c.Itens[i]
		if it.Subtotal.IsZero() && !it.PrecoUnitario.IsZero() {
			it.Subtotal = it.PrecoUnitario.MulInt(it.Quantidade)
		}
		total = total.Add(it.Subtotal)
	}
	c.ValorTotal = total
}

func upsertItem(c *Carrinho, item CarrinhoItem) {
	for i := range c.Itens {
		if c.Itens[i].ItemID == item.ItemID ||
			(item.ProdutoID != 0 && c.Itens[i].ProdutoID == item.ProdutoID) {
			c.Itens[i] = item
			return
		}
	}
	c.Itens = append(c.Itens, item)
}
