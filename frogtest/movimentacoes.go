package frogtest

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/pkg/money"
)

func (s *Server) listarMovimentacoes(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	movs := []frog.Movimentacao{}
	for _, m := range s.movs {
		if m.ComercioID == rec.ComercioID {
			movs = append(movs, *m)
		}
	}
	sort.Slice(movs, func(i, j int) bool { return movs[i].MovID < movs[j].MovID })
	return c.JSON(fiber.Map{"movimentacoes": movs})
}

func (s *Server) listarMovimentacoesAbertas(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	movs := []frog.Movimentacao{}
	for _, m := range s.movs {
		if m.ComercioID == rec.ComercioID && m.Estado == frog.EstadoAberta {
			movs = append(movs, *m)
		}
	}
	sort.Slice(movs, func(i, j int) bool { return movs[i].MovID < movs[j].MovID })
	return c.JSON(fiber.Map{"movimentacoes": movs})
}

func (s *Server) abrirMovimentacao(c *fiber.Ctx) error {
	var in struct {
		Tipo string `json:"tipo"`
	}
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	if in.Tipo != frog.TipoEntrada && in.Tipo != frog.TipoSaida {
		return jsonMsg(c, fiber.StatusBadRequest, "tipo deve ser entrada ou saida")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	mov := s.novaMovimentacao(rec.ComercioID, in.Tipo)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movimentacao": mov})
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrinho
// ──────────────────────────────────────────────────────────────────────────────

// movDoLink resolve o link da rota em movimentação aberta e carrinho.
// Quando devolve nil a resposta de erro já foi escrita. Chamar com o mutex
// tomado.
func (s *Server) movDoLink(c *fiber.Ctx) (*frog.Movimentacao, *frog.Carrinho, error) {
	link := c.Params("link")
	mov, ok := s.movsPorLink[link]
	if !ok {
		return nil, nil, jsonMsg(c, fiber.StatusBadRequest, "movimentação não encontrada")
	}
	if !s.temAcesso(usuarioDo(c), mov.ComercioID) {
		return nil, nil, jsonMsg(c, fiber.StatusUnauthorized, "erro de autenticação")
	}
	if mov.Estado != frog.EstadoAberta {
		return nil, nil, jsonMsg(c, fiber.StatusConflict, "movimentação fechada")
	}
	cart, ok := s.carrinhos[mov.CarrinhoID]
	if !ok {
		return nil, nil, jsonMsg(c, fiber.StatusNotFound, "carrinho não encontrado")
	}
	return mov, cart, nil
}

func (s *Server) getCarrinho(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mov, cart, err := s.movDoLink(c)
	if mov == nil {
		return err
	}
	return c.JSON(fiber.Map{"carrinho": cart, "movimentacao": mov})
}

// criarCarrinho é idempotente: link conhecido devolve o carrinho existente;
// link desconhecido abre uma movimentação nova com link próprio, deixando o
// cliente migrar para o canônico.
func (s *Server) criarCarrinho(c *fiber.Ctx) error {
	var in struct {
		ComercioID int64 `json:"comercio_id"`
	}
	if err := c.BodyParser(&in); err != nil || in.ComercioID == 0 {
		return jsonMsg(c, fiber.StatusBadRequest, "comercio_id é obrigatório")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.temAcesso(usuarioDo(c), in.ComercioID) {
		return jsonMsg(c, fiber.StatusUnauthorized, "erro de autenticação")
	}

	link := c.Params("link")
	if mov, ok := s.movsPorLink[link]; ok {
		if mov.Estado != frog.EstadoAberta {
			return jsonMsg(c, fiber.StatusConflict, "movimentação fechada")
		}
		cart := s.carrinhos[mov.CarrinhoID]
		return c.JSON(fiber.Map{"carrinho": cart, "movimentacao": mov})
	}

	mov := s.novaMovimentacao(in.ComercioID, frog.TipoSaida)
	cart := s.carrinhos[mov.CarrinhoID]
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"carrinho": cart, "movimentacao": mov})
}

// respostaCarrinho responde a mutação no formato escolhido pelo knob.
// Chamar com o mutex tomado.
func (s *Server) respostaCarrinho(c *fiber.Ctx, mov *frog.Movimentacao, cart *frog.Carrinho, item *frog.CarrinhoItem) error {
	switch s.carrinhoShape {
	case ShapeItens:
		return c.JSON(cart.Itens)
	case ShapeItem:
		if item == nil {
			return c.JSON(fiber.Map{"msg": "removido"})
		}
		return c.JSON(item)
	default:
		return c.JSON(fiber.Map{"carrinho": cart, "movimentacao": mov})
	}
}

func (s *Server) adicionarItem(c *fiber.Ctx) error {
	var in struct {
		ComercioID int64 `json:"comercio_id"`
		Quantidade int64 `json:"quantidade"`
	}
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	if in.Quantidade <= 0 {
		return jsonMsg(c, fiber.StatusBadRequest, "quantidade deve ser positiva")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mov, cart, err := s.movDoLink(c)
	if mov == nil {
		return err
	}
	p, ok := s.produtos[paramID(c, "pid")]
	if !ok || p.ComercioID != mov.ComercioID {
		return jsonMsg(c, fiber.StatusNotFound, "produto não encontrado")
	}

	var item *frog.CarrinhoItem
	for i := range cart.Itens {
		if cart.Itens[i].ProdutoID == p.ProdutoID {
			item = &cart.Itens[i]
			break
		}
	}
	if item != nil {
		item.Quantidade += in.Quantidade
	} else {
		cart.Itens = append(cart.Itens, frog.CarrinhoItem{
			ItemID:        s.nextID(),
			CarrinhoID:    cart.CarrinhoID,
			ProdutoID:     p.ProdutoID,
			NomeProduto:   p.Nome,
			PrecoUnitario: p.Preco,
			Quantidade:    in.Quantidade,
			ComercioID:    mov.ComercioID,
			CriadoEm:      time.Now().UTC(),
		})
		item = &cart.Itens[len(cart.Itens)-1]
	}
	recalcularCarrinho(cart)
	return s.respostaCarrinho(c, mov, cart, item)
}

func (s *Server) removerItem(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mov, cart, err := s.movDoLink(c)
	if mov == nil {
		return err
	}
	itemID := paramID(c, "iid")
	idx := -1
	for i := range cart.Itens {
		if cart.Itens[i].ItemID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return jsonMsg(c, fiber.StatusNotFound, "item não encontrado")
	}
	cart.Itens = append(cart.Itens[:idx], cart.Itens[idx+1:]...)
	recalcularCarrinho(cart)
	return s.respostaCarrinho(c, mov, cart, nil)
}

// finalizarMovimentacao fecha a movimentação do carrinho: aplica o efeito no
// estoque (entrada soma, saída subtrai) e congela os totais.
func (s *Server) finalizarMovimentacao(c *fiber.Ctx) error {
	var in struct {
		Tipo       string `json:"tipo"`
		CarrinhoID int64  `json:"carrinho_id"`
		ComercioID int64  `json:"comercio_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	if in.Tipo != frog.TipoEntrada && in.Tipo != frog.TipoSaida {
		return jsonMsg(c, fiber.StatusBadRequest, "tipo deve ser entrada ou saida")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carrinhos[in.CarrinhoID]
	if !ok {
		return jsonMsg(c, fiber.StatusNotFound, "carrinho não encontrado")
	}
	var mov *frog.Movimentacao
	for _, m := range s.movs {
		if m.CarrinhoID == cart.CarrinhoID {
			mov = m
			break
		}
	}
	if mov == nil {
		return jsonMsg(c, fiber.StatusNotFound, "movimentação não encontrada")
	}
	if !s.temAcesso(usuarioDo(c), mov.ComercioID) {
		return jsonMsg(c, fiber.StatusUnauthorized, "erro de autenticação")
	}
	if mov.Estado != frog.EstadoAberta {
		return jsonMsg(c, fiber.StatusConflict, "movimentação fechada")
	}

	// Saída exige estoque suficiente antes de qualquer alteração.
	if in.Tipo == frog.TipoSaida {
		for _, it := range cart.Itens {
			p, ok := s.produtos[it.ProdutoID]
			if !ok || p.QuantidadeEstoque < it.Quantidade {
				return jsonMsg(c, fiber.StatusConflict, "estoque insuficiente")
			}
		}
	}
	for _, it := range cart.Itens {
		p, ok := s.produtos[it.ProdutoID]
		if !ok {
			continue
		}
		if in.Tipo == frog.TipoEntrada {
			p.QuantidadeEstoque += it.Quantidade
		} else {
			p.QuantidadeEstoque -= it.Quantidade
		}
		p.AtualizadoEm = time.Now().UTC()
	}

	recalcularCarrinho(cart)
	agora := time.Now().UTC()
	mov.Tipo = in.Tipo
	mov.Estado = frog.EstadoFechada
	mov.ValorTotal = cart.ValorTotal
	mov.FechadoEm = &agora
	mov.TotalItens = 0
	for _, it := range cart.Itens {
		mov.TotalItens += it.Quantidade
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movimentacao": mov})
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard
// ──────────────────────────────────────────────────────────────────────────────

func (s *Server) dashboardCards(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	limite := money.Zero
	if rec.Configuracao != nil {
		limite = rec.Configuracao.NivelAlertaMinimo
	}
	cards := frog.DashboardCards{LimiteGlobal: &limite}
	for _, p := range s.produtos {
		if p.ComercioID != rec.ComercioID {
			continue
		}
		switch {
		case p.QuantidadeEstoque == 0:
			cards.ZeroCount++
		case decimal.NewFromInt(p.QuantidadeEstoque).LessThanOrEqual(limite.Decimal):
			cards.LowCount++
		}
	}
	return c.JSON(cards)
}

func (s *Server) dashboardMensais(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	porMes := map[string]*frog.MovimentacaoMensal{}
	for _, m := range s.movs {
		if m.ComercioID != rec.ComercioID || m.Estado != frog.EstadoFechada || m.FechadoEm == nil {
			continue
		}
		mes := m.FechadoEm.Format("2006-01")
		agg, ok := porMes[mes]
		if !ok {
			agg = &frog.MovimentacaoMensal{Mes: mes, Entradas: money.Zero, Saidas: money.Zero}
			porMes[mes] = agg
		}
		if m.Tipo == frog.TipoEntrada {
			agg.Entradas = agg.Entradas.Add(m.ValorTotal)
		} else {
			agg.Saidas = agg.Saidas.Add(m.ValorTotal)
		}
	}
	items := []frog.MovimentacaoMensal{}
	for _, agg := range porMes {
		items = append(items, *agg)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Mes < items[j].Mes })
	return c.JSON(fiber.Map{"items": items})
}
