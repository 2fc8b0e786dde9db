package frogtest

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/frogstock/frog-go/frog"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type credenciais struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var in credenciais
	if err := c.BodyParser(&in); err != nil || in.Email == "" || in.Senha == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"mensagem": "Email e senha são obrigatórios"})
	}

	s.mu.Lock()
	id, ok := s.porEmail[in.Email]
	var rec *usuarioRec
	if ok {
		rec = s.usuarios[id]
	}
	gen := s.gen
	s.mu.Unlock()

	if rec == nil || bcrypt.CompareHashAndPassword(rec.senhaHash, []byte(in.Senha)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"mensagem": "Credenciais inválidas"})
	}

	access, err := generateToken(s.secret, rec.UsuarioID, rec.Email, "", gen, accessTTL)
	if err != nil {
		return jsonMsg(c, fiber.StatusInternalServerError, "erro ao emitir token")
	}
	refresh, err := generateToken(s.secret, rec.UsuarioID, rec.Email, "refresh", gen, refreshTTL)
	if err != nil {
		return jsonMsg(c, fiber.StatusInternalServerError, "erro ao emitir token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{
		"usuario": fiber.Map{
			"usuario_id": rec.UsuarioID,
			"email":      rec.Email,
			"nome":       rec.Nome,
		},
		"access_token": access,
		"token_type":   "Bearer",
		"expires_in":   int(accessTTL.Seconds()),
	})
}

func (s *Server) refresh(c *fiber.Ctx) error {
	atomic.AddInt64(&s.refreshCalls, 1)

	if atomic.LoadInt32(&s.refreshFalha) != 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"mensagem": "Refresh token expirado"})
	}
	cookie := c.Cookies("refresh_token")
	if cookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"mensagem": "Refresh token ausente"})
	}
	cl, err := parseToken(s.secret, cookie)
	if err != nil || cl.Tipo != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"mensagem": "Token inválido"})
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	access, err := generateToken(s.secret, cl.UsuarioID, cl.Email, "", gen, accessTTL)
	if err != nil {
		return jsonMsg(c, fiber.StatusInternalServerError, "erro ao emitir token")
	}
	return c.JSON(fiber.Map{"mensagem": "ok", "access_token": access})
}

func (s *Server) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:    "refresh_token",
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"mensagem": "Deslogado"})
}

type cadastroUsuario struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
	Nome  string `json:"nome"`
}

func (s *Server) cadastrarUsuario(c *fiber.Ctx) error {
	var in cadastroUsuario
	if err := c.BodyParser(&in); err != nil || in.Email == "" || in.Senha == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"mensagem": "Email e senha são obrigatórios"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existe := s.porEmail[in.Email]; existe {
		return jsonMsg(c, fiber.StatusConflict, "email já cadastrado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return jsonMsg(c, fiber.StatusInternalServerError, "erro ao cadastrar")
	}
	rec := &usuarioRec{
		Usuario:   frog.Usuario{UsuarioID: s.nextID(), Email: in.Email, Nome: in.Nome},
		senhaHash: hash,
	}
	s.usuarios[rec.UsuarioID] = rec
	s.porEmail[in.Email] = rec.UsuarioID
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"usuario": fiber.Map{
		"usuario_id": rec.UsuarioID,
		"email":      rec.Email,
		"nome":       rec.Nome,
	}})
}

func (s *Server) me(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.usuarios[usuarioDo(c)]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"mensagem": "Usuário não encontrado"})
	}
	var ids []int64
	for _, r := range s.comerciosDe(rec.UsuarioID) {
		ids = append(ids, r.ComercioID)
	}
	return c.JSON(fiber.Map{"usuario": fiber.Map{
		"usuario_id": rec.UsuarioID,
		"email":      rec.Email,
		"nome":       rec.Nome,
		"comercios":  ids,
	}})
}

func (s *Server) meusComercios(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resumos := s.comerciosDe(usuarioDo(c))
	if resumos == nil {
		resumos = []frog.ComercioResumo{}
	}
	return c.JSON(fiber.Map{"comercios": resumos})
}

func (s *Server) getConvite(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comercioID, ok := s.convites[c.Params("codigo")]
	if !ok {
		return c.JSON(fiber.Map{"isValid": false, "message": "Convite inválido ou não encontrado"})
	}
	rec := s.comercios[comercioID]
	return c.JSON(fiber.Map{"isValid": true, "comercio": rec.Comercio})
}

func (s *Server) aceitarConvite(c *fiber.Ctx) error {
	var in struct {
		InviteCode string `json:"inviteCode"`
	}
	if err := c.BodyParser(&in); err != nil || in.InviteCode == "" {
		return jsonMsg(c, fiber.StatusBadRequest, "inviteCode ausente")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	comercioID, ok := s.convites[in.InviteCode]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Convite inválido ou não encontrado"})
	}
	s.comercios[comercioID].membros[usuarioDo(c)] = true
	return c.JSON(fiber.Map{"msg": "ok"})
}
