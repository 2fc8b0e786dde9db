package frogtest

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/frogstock/frog-go/frog"
)

func paramID(c *fiber.Ctx, nome string) int64 {
	n, _ := strconv.ParseInt(c.Params(nome), 10, 64)
	return n
}

// comercioAutorizado carrega o comércio da rota checando a filiação do
// usuário. Quando devolve nil a resposta de erro já foi escrita. Chamar com
// o mutex tomado.
func (s *Server) comercioAutorizado(c *fiber.Ctx) (*comercioRec, error) {
	comercioID := paramID(c, "id")
	rec, ok := s.comercios[comercioID]
	if !ok {
		return nil, jsonMsg(c, fiber.StatusNotFound, "comércio não encontrado")
	}
	if !s.temAcesso(usuarioDo(c), comercioID) {
		return nil, jsonMsg(c, fiber.StatusUnauthorized, "erro de autenticação")
	}
	return rec, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Comércios
// ──────────────────────────────────────────────────────────────────────────────

func (s *Server) criarComercio(c *fiber.Ctx) error {
	var in frog.CriarComercioRequest
	if err := c.BodyParser(&in); err != nil || in.Nome == "" {
		return jsonMsg(c, fiber.StatusBadRequest, "nome é obrigatório")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.comercios {
		if rec.Nome == in.Nome {
			return jsonMsg(c, fiber.StatusConflict, "já existe um comércio com esse nome")
		}
	}
	cfg := in.Configuracao
	if cfg == nil {
		cfg = configPadrao()
	}
	rec := &comercioRec{
		Comercio: frog.Comercio{
			ComercioID:     s.nextID(),
			ProprietarioID: usuarioDo(c),
			Nome:           in.Nome,
			Configuracao:   cfg,
			CriadoEm:       time.Now().UTC(),
			AtualizadoEm:   time.Now().UTC(),
		},
		membros: make(map[int64]bool),
	}
	s.comercios[rec.ComercioID] = rec
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comercio": rec.Comercio})
}

func (s *Server) getComercio(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	return c.JSON(fiber.Map{"comercio": rec.Comercio})
}

func (s *Server) atualizarComercio(c *fiber.Ctx) error {
	var in frog.AtualizarComercioRequest
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	if in.Nome != nil {
		rec.Nome = *in.Nome
		rec.AtualizadoEm = time.Now().UTC()
	}
	return c.JSON(fiber.Map{"comercio": rec.Comercio})
}

func (s *Server) excluirComercio(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	if rec.ProprietarioID != usuarioDo(c) {
		return jsonMsg(c, fiber.StatusForbidden, "apenas o proprietário pode excluir")
	}
	delete(s.comercios, rec.ComercioID)
	return c.JSON(fiber.Map{"msg": "ok"})
}

func (s *Server) getConfig(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	return c.JSON(fiber.Map{"configuracao": rec.Configuracao})
}

func (s *Server) atualizarConfig(c *fiber.Ctx) error {
	var in frog.ConfiguracaoComercio
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	rec.Configuracao = &in
	rec.AtualizadoEm = time.Now().UTC()
	return c.JSON(fiber.Map{"configuracao": rec.Configuracao})
}

func (s *Server) getLinkConvite(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	if rec.linkConvite == "" {
		return jsonMsg(c, fiber.StatusNotFound, "comércio sem link de convite")
	}
	return c.JSON(fiber.Map{"link": rec.linkConvite})
}

func (s *Server) criarLinkConvite(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	if rec.linkConvite != "" {
		delete(s.convites, rec.linkConvite)
	}
	rec.linkConvite = uuid.NewString()
	s.convites[rec.linkConvite] = rec.ComercioID
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"link": rec.linkConvite})
}

// ──────────────────────────────────────────────────────────────────────────────
// Produtos
// ──────────────────────────────────────────────────────────────────────────────

func (s *Server) listarProdutos(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	items := []frog.Produto{}
	for _, p := range s.produtos {
		if p.ComercioID == rec.ComercioID {
			items = append(items, *p)
		}
	}
	return c.JSON(fiber.Map{"items": items})
}

func (s *Server) criarProduto(c *fiber.Ctx) error {
	var in frog.CriarProdutoRequest
	if err := c.BodyParser(&in); err != nil || in.Nome == "" {
		return jsonMsg(c, fiber.StatusBadRequest, "nome é obrigatório")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	for _, p := range s.produtos {
		if p.ComercioID == rec.ComercioID && p.Codigo == in.Codigo && in.Codigo != "" {
			return jsonMsg(c, fiber.StatusConflict, "código já usado neste comércio")
		}
	}
	p := &frog.Produto{
		ProdutoID:         s.nextID(),
		Codigo:            in.Codigo,
		Nome:              in.Nome,
		Preco:             in.Preco,
		QuantidadeEstoque: in.Quantidade,
		Tags:              in.Tags,
		UnimedID:          in.UnimedID,
		CategoriaID:       in.CategoriaID,
		FornecedorID:      in.FornecedorID,
		ComercioID:        rec.ComercioID,
		CriadoEm:          time.Now().UTC(),
		AtualizadoEm:      time.Now().UTC(),
	}
	s.produtos[p.ProdutoID] = p
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"produto": p})
}

func (s *Server) produtoDaRota(c *fiber.Ctx) (*frog.Produto, error) {
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return nil, err
	}
	p, ok := s.produtos[paramID(c, "pid")]
	if !ok || p.ComercioID != rec.ComercioID {
		return nil, jsonMsg(c, fiber.StatusNotFound, "produto não encontrado")
	}
	return p, nil
}

func (s *Server) getProduto(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.produtoDaRota(c)
	if p == nil {
		return err
	}
	return c.JSON(fiber.Map{"produto": p})
}

func (s *Server) atualizarProduto(c *fiber.Ctx) error {
	var in frog.AtualizarProdutoRequest
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.produtoDaRota(c)
	if p == nil {
		return err
	}
	if in.Nome != nil {
		p.Nome = *in.Nome
	}
	if in.Preco != nil {
		p.Preco = *in.Preco
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.UnimedID != nil {
		p.UnimedID = *in.UnimedID
	}
	if in.CategoriaID != nil {
		p.CategoriaID = *in.CategoriaID
	}
	if in.FornecedorID != nil {
		p.FornecedorID = *in.FornecedorID
	}
	p.AtualizadoEm = time.Now().UTC()
	return c.JSON(fiber.Map{"produto": p})
}

func (s *Server) excluirProduto(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.produtoDaRota(c)
	if p == nil {
		return err
	}
	delete(s.produtos, p.ProdutoID)
	return c.JSON(fiber.Map{"msg": "ok"})
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorias e fornecedores
// ──────────────────────────────────────────────────────────────────────────────

func (s *Server) listarCategorias(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	items := []frog.Categoria{}
	for _, cat := range s.categorias {
		if cat.ComercioID == rec.ComercioID {
			items = append(items, *cat)
		}
	}
	return c.JSON(fiber.Map{"items": items})
}

func (s *Server) criarCategoria(c *fiber.Ctx) error {
	var in struct {
		Nome string `json:"nome"`
	}
	if err := c.BodyParser(&in); err != nil || in.Nome == "" {
		return jsonMsg(c, fiber.StatusBadRequest, "nome é obrigatório")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	cat := &frog.Categoria{CategoriaID: s.nextID(), Nome: in.Nome, ComercioID: rec.ComercioID}
	s.categorias[cat.CategoriaID] = cat
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"categoria": cat})
}

func (s *Server) atualizarCategoria(c *fiber.Ctx) error {
	var in struct {
		Nome string `json:"nome"`
	}
	if err := c.BodyParser(&in); err != nil || in.Nome == "" {
		return jsonMsg(c, fiber.StatusBadRequest, "nome é obrigatório")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	cat, ok := s.categorias[paramID(c, "cid")]
	if !ok || cat.ComercioID != rec.ComercioID {
		return jsonMsg(c, fiber.StatusNotFound, "categoria não encontrada")
	}
	cat.Nome = in.Nome
	return c.JSON(fiber.Map{"categoria": cat})
}

func (s *Server) excluirCategoria(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	cat, ok := s.categorias[paramID(c, "cid")]
	if !ok || cat.ComercioID != rec.ComercioID {
		return jsonMsg(c, fiber.StatusNotFound, "categoria não encontrada")
	}
	for _, p := range s.produtos {
		if p.CategoriaID == cat.CategoriaID {
			return jsonMsg(c, fiber.StatusConflict, "categoria em uso por produtos")
		}
	}
	delete(s.categorias, cat.CategoriaID)
	return c.JSON(fiber.Map{"msg": "ok"})
}

func (s *Server) listarFornecedores(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	items := []frog.Fornecedor{}
	for _, f := range s.fornecedores {
		if f.ComercioID == rec.ComercioID {
			items = append(items, *f)
		}
	}
	return c.JSON(fiber.Map{"items": items})
}

func (s *Server) criarFornecedor(c *fiber.Ctx) error {
	var in frog.CriarFornecedorRequest
	if err := c.BodyParser(&in); err != nil || in.Nome == "" {
		return jsonMsg(c, fiber.StatusBadRequest, "nome é obrigatório")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	f := &frog.Fornecedor{
		FornecedorID: s.nextID(),
		Nome:         in.Nome,
		CNPJ:         in.CNPJ,
		Telefone:     in.Telefone,
		Email:        in.Email,
		ComercioID:   rec.ComercioID,
	}
	s.fornecedores[f.FornecedorID] = f
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"fornecedor": f})
}

func (s *Server) atualizarFornecedor(c *fiber.Ctx) error {
	var in frog.CriarFornecedorRequest
	if err := c.BodyParser(&in); err != nil {
		return jsonMsg(c, fiber.StatusBadRequest, "corpo inválido")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	f, ok := s.fornecedores[paramID(c, "fid")]
	if !ok || f.ComercioID != rec.ComercioID {
		return jsonMsg(c, fiber.StatusNotFound, "fornecedor não encontrado")
	}
	if in.Nome != "" {
		f.Nome = in.Nome
	}
	f.CNPJ = in.CNPJ
	f.Telefone = in.Telefone
	f.Email = in.Email
	return c.JSON(fiber.Map{"fornecedor": f})
}

func (s *Server) excluirFornecedor(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.comercioAutorizado(c)
	if rec == nil {
		return err
	}
	f, ok := s.fornecedores[paramID(c, "fid")]
	if !ok || f.ComercioID != rec.ComercioID {
		return jsonMsg(c, fiber.StatusNotFound, "fornecedor não encontrado")
	}
	delete(s.fornecedores, f.FornecedorID)
	return c.JSON(fiber.Map{"msg": "ok"})
}

func (s *Server) listarUnidadesGlobais(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []frog.UnidadeMedida{}
	for _, u := range s.unidades {
		items = append(items, *u)
	}
	return c.JSON(fiber.Map{"items": items})
}
