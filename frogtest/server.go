// Package frogtest fornece um backend Frog em memória para testes do SDK e
// de aplicações que o consomem. Implementa a superfície REST real (login com
// bcrypt, JWT HS256, cookie de refresh, CRUD de catálogo e o fluxo de
// movimentação com carrinho) em um listener de loopback.
package frogtest

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/pkg/money"
)

// CarrinhoShape formato de resposta das mutações de carrinho. O backend real
// varia entre os três; o knob deixa os testes exercitarem a normalização do
// cliente.
type CarrinhoShape int

const (
	// ShapeCarrinho objeto completo {"carrinho": ..., "movimentacao": ...}.
	ShapeCarrinho CarrinhoShape = iota
	// ShapeItens array puro de itens.
	ShapeItens
	// ShapeItem só o item afetado (remoções respondem {"msg": ...}).
	ShapeItem
)

type usuarioRec struct {
	frog.Usuario
	senhaHash []byte
}

type comercioRec struct {
	frog.Comercio
	membros     map[int64]bool
	linkConvite string
}

// Server é o backend Frog em memória.
type Server struct {
	app     *fiber.App
	ln      net.Listener
	baseURL string
	secret  string

	refreshCalls int64 // atômico
	refreshFalha int32 // atômico; != 0 faz /refresh responder 401

	mu            sync.Mutex
	gen           int // geração corrente de access tokens
	carrinhoShape CarrinhoShape
	seq           int64
	usuarios      map[int64]*usuarioRec
	porEmail      map[string]int64
	comercios     map[int64]*comercioRec
	produtos      map[int64]*frog.Produto
	categorias    map[int64]*frog.Categoria
	fornecedores  map[int64]*frog.Fornecedor
	unidades      map[int64]*frog.UnidadeMedida
	movs          map[int64]*frog.Movimentacao
	movsPorLink   map[string]*frog.Movimentacao
	carrinhos     map[int64]*frog.Carrinho
	convites      map[string]int64 // código -> comercio
}

// New sobe o servidor em uma porta livre de loopback.
func New() (*Server, error) {
	s := &Server{
		secret:       "frogtest-" + uuid.NewString(),
		usuarios:     make(map[int64]*usuarioRec),
		porEmail:     make(map[string]int64),
		comercios:    make(map[int64]*comercioRec),
		produtos:     make(map[int64]*frog.Produto),
		categorias:   make(map[int64]*frog.Categoria),
		fornecedores: make(map[int64]*frog.Fornecedor),
		unidades:     make(map[int64]*frog.UnidadeMedida),
		movs:         make(map[int64]*frog.Movimentacao),
		movsPorLink:  make(map[string]*frog.Movimentacao),
		carrinhos:    make(map[int64]*frog.Carrinho),
		convites:     make(map[string]int64),
	}
	s.seedUnidadesGlobais()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s.app = app
	s.rotas(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("frogtest: listen: %w", err)
	}
	s.ln = ln
	s.baseURL = "http://" + ln.Addr().String()

	go func() {
		_ = app.Listener(ln)
	}()
	return s, nil
}

// URL endereço base do servidor (http://127.0.0.1:porta).
func (s *Server) URL() string {
	return s.baseURL
}

// Close derruba o servidor.
func (s *Server) Close() {
	_ = s.app.Shutdown()
}

// ──────────────────────────────────────────────────────────────────────────────
// Knobs de teste
// ──────────────────────────────────────────────────────────────────────────────

// RefreshCalls quantas vezes POST /refresh foi atingido.
func (s *Server) RefreshCalls() int64 {
	return atomic.LoadInt64(&s.refreshCalls)
}

// SetRefreshFalha faz /refresh responder 401 enquanto ativo.
func (s *Server) SetRefreshFalha(falha bool) {
	var v int32
	if falha {
		v = 1
	}
	atomic.StoreInt32(&s.refreshFalha, v)
}

// RevokeTokens invalida todos os access tokens emitidos até agora. Os
// refresh tokens continuam válidos, então o próximo /refresh emite uma
// credencial aceita.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// SetCarrinhoShape escolhe o formato de resposta das mutações de carrinho.
func (s *Server) SetCarrinhoShape(shape CarrinhoShape) {
	s.mu.Lock()
	s.carrinhoShape = shape
	s.mu.Unlock()
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado interno
// ──────────────────────────────────────────────────────────────────────────────

func (s *Server) nextID() int64 {
	s.seq++
	return s.seq
}

func genLink() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func (s *Server) temAcesso(usuarioID, comercioID int64) bool {
	rec, ok := s.comercios[comercioID]
	if !ok {
		return false
	}
	return rec.ProprietarioID == usuarioID || rec.membros[usuarioID]
}

func (s *Server) comerciosDe(usuarioID int64) []frog.ComercioResumo {
	var out []frog.ComercioResumo
	for _, rec := range s.comercios {
		if rec.ProprietarioID == usuarioID || rec.membros[usuarioID] {
			out = append(out, frog.ComercioResumo{
				ComercioID:     rec.ComercioID,
				Nome:           rec.Nome,
				IsProprietario: rec.ProprietarioID == usuarioID,
			})
		}
	}
	return out
}

func (s *Server) seedUnidadesGlobais() {
	presets := []frog.UnidadeMedida{
		{Nome: "Unidade", Sigla: "un"},
		{Nome: "Quilograma", Sigla: "kg"},
		{Nome: "Litro", Sigla: "l"},
	}
	for _, u := range presets {
		u.UnimedID = s.nextID()
		clone := u
		s.unidades[u.UnimedID] = &clone
	}
}

func configPadrao() *frog.ConfiguracaoComercio {
	return &frog.ConfiguracaoComercio{
		UnidadePadrao:     "un",
		NivelAlertaMinimo: money.Zero,
		MoedaPadrao:       "BRL",
		Linguagem:         "pt-BR",
	}
}

func (s *Server) novaMovimentacao(comercioID int64, tipo string) *frog.Movimentacao {
	cart := &frog.Carrinho{
		CarrinhoID:   s.nextID(),
		ComercioID:   comercioID,
		Itens:        []frog.CarrinhoItem{},
		ValorTotal:   money.Zero,
		CriadoEm:     time.Now().UTC(),
		AtualizadoEm: time.Now().UTC(),
	}
	s.carrinhos[cart.CarrinhoID] = cart

	mov := &frog.Movimentacao{
		MovID:      s.nextID(),
		Tipo:       tipo,
		Estado:     frog.EstadoAberta,
		Link:       genLink(),
		Codigo:     s.nextID(),
		CarrinhoID: cart.CarrinhoID,
		ComercioID: comercioID,
		ValorTotal: money.Zero,
		CriadoEm:   time.Now().UTC(),
	}
	s.movs[mov.MovID] = mov
	s.movsPorLink[mov.Link] = mov
	return mov
}

func recalcularCarrinho(cart *frog.Carrinho) {
	total := money.Zero
	for i := range cart.Itens {
		it := &cart.Itens[i]
		it.Subtotal = it.PrecoUnitario.MulInt(it.Quantidade)
		total = total.Add(it.Subtotal)
	}
	cart.ValorTotal = total
	cart.AtualizadoEm = time.Now().UTC()
}

// jsonMsg resposta de erro no formato do backend original.
func jsonMsg(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"msg": msg})
}
