package frogtest

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// rotas registra a superfície REST do Frog.
func (s *Server) rotas(app *fiber.App) {
	// Sessão
	app.Post("/login", s.login)
	app.Post("/refresh", s.refresh)
	app.Post("/logout", s.logout)
	app.Post("/usuarios", s.cadastrarUsuario)
	app.Get("/me", s.auth, s.me)
	app.Get("/me/comercios", s.auth, s.meusComercios)

	// Convites (consulta é pública; aceitar exige sessão)
	app.Get("/convites/:codigo", s.getConvite)
	app.Post("/convites", s.auth, s.aceitarConvite)

	// Comércios
	app.Post("/comercios", s.auth, s.criarComercio)
	app.Get("/comercios/:id", s.auth, s.getComercio)
	app.Patch("/comercios/:id", s.auth, s.atualizarComercio)
	app.Delete("/comercios/:id", s.auth, s.excluirComercio)
	app.Get("/comercios/:id/config", s.auth, s.getConfig)
	app.Patch("/comercios/:id/config", s.auth, s.atualizarConfig)
	app.Get("/comercios/:id/link", s.auth, s.getLinkConvite)
	app.Post("/comercios/:id/link", s.auth, s.criarLinkConvite)

	// Catálogo
	app.Get("/unidades", s.auth, s.listarUnidadesGlobais)
	app.Get("/comercios/:id/unidades", s.auth, s.listarUnidadesGlobais)
	app.Get("/comercios/:id/produtos", s.auth, s.listarProdutos)
	app.Post("/comercios/:id/produtos", s.auth, s.criarProduto)
	app.Get("/comercios/:id/produtos/:pid", s.auth, s.getProduto)
	app.Put("/comercios/:id/produtos/:pid", s.auth, s.atualizarProduto)
	app.Delete("/comercios/:id/produtos/:pid", s.auth, s.excluirProduto)
	app.Get("/comercios/:id/categorias", s.auth, s.listarCategorias)
	app.Post("/comercios/:id/categorias", s.auth, s.criarCategoria)
	app.Put("/comercios/:id/categorias/:cid", s.auth, s.atualizarCategoria)
	app.Delete("/comercios/:id/categorias/:cid", s.auth, s.excluirCategoria)
	app.Get("/comercios/:id/fornecedores", s.auth, s.listarFornecedores)
	app.Post("/comercios/:id/fornecedores", s.auth, s.criarFornecedor)
	app.Put("/comercios/:id/fornecedores/:fid", s.auth, s.atualizarFornecedor)
	app.Delete("/comercios/:id/fornecedores/:fid", s.auth, s.excluirFornecedor)

	// Movimentações e carrinho
	app.Get("/comercios/:id/movimentacoes", s.auth, s.listarMovimentacoes)
	app.Get("/comercios/:id/movimentacoes/abertas", s.auth, s.listarMovimentacoesAbertas)
	app.Post("/comercios/:id/movimentacoes", s.auth, s.abrirMovimentacao)
	app.Get("/movimentacoes/:link/carrinho", s.auth, s.getCarrinho)
	app.Post("/movimentacoes/:link/carrinho", s.auth, s.criarCarrinho)
	app.Post("/movimentacoes/:link/carrinho/p/:pid", s.auth, s.adicionarItem)
	app.Delete("/movimentacoes/:link/carrinho/item/:iid", s.auth, s.removerItem)
	app.Post("/movimentacoes", s.auth, s.finalizarMovimentacao)

	// Dashboard
	app.Get("/comercios/:id/dashboard/cards", s.auth, s.dashboardCards)
	app.Get("/comercios/:id/dashboard/movimentacoes_mensais", s.auth, s.dashboardMensais)
}

const localUsuarioID = "usuario_id"

// auth valida o Bearer Token e carrega o usuário em c.Locals. Tokens de uma
// geração anterior a RevokeTokens são recusados com 401.
func (s *Server) auth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return jsonMsg(c, fiber.StatusUnauthorized, "Token ausente!")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return jsonMsg(c, fiber.StatusUnauthorized, "formato: Bearer <token>")
	}
	cl, err := parseToken(s.secret, strings.TrimSpace(parts[1]))
	if err != nil {
		return jsonMsg(c, fiber.StatusUnauthorized, "Token inválido!")
	}
	if cl.Tipo == "refresh" {
		return jsonMsg(c, fiber.StatusUnauthorized, "Token inválido!")
	}
	s.mu.Lock()
	atual := s.gen
	s.mu.Unlock()
	if cl.Gen != atual {
		return jsonMsg(c, fiber.StatusUnauthorized, "Token expirado!")
	}
	c.Locals(localUsuarioID, cl.UsuarioID)
	return c.Next()
}

func usuarioDo(c *fiber.Ctx) int64 {
	v := c.Locals(localUsuarioID)
	if v == nil {
		return 0
	}
	id, _ := v.(int64)
	return id
}
