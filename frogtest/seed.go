package frogtest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/pkg/money"
)

// Helpers de seed para montar cenários sem passar pela API.

// SeedUsuario cria um usuário com a senha dada e devolve seu id.
func SeedUsuario(s *Server, email, senha, nome string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	if err != nil {
		return 0, fmt.Errorf("frogtest: hash de senha: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.porEmail[email]; ok {
		return 0, fmt.Errorf("frogtest: email %q já cadastrado", email)
	}
	u := &usuarioRec{
		Usuario:   frog.Usuario{UsuarioID: s.nextID(), Email: email, Nome: nome},
		senhaHash: hash,
	}
	s.usuarios[u.UsuarioID] = u
	s.porEmail[email] = u.UsuarioID
	return u.UsuarioID, nil
}

// SeedComercio cria um comércio com configuração padrão para o proprietário
// dado e devolve seu id.
func SeedComercio(s *Server, proprietarioID int64, nome string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &comercioRec{
		Comercio: frog.Comercio{
			ComercioID:     s.nextID(),
			ProprietarioID: proprietarioID,
			Nome:           nome,
			Configuracao:   configPadrao(),
			CriadoEm:       time.Now().UTC(),
			AtualizadoEm:   time.Now().UTC(),
		},
		membros: make(map[int64]bool),
	}
	s.comercios[rec.ComercioID] = rec
	return rec.ComercioID
}

// SeedProduto cria um produto com preço e estoque dados e devolve seu id.
func SeedProduto(s *Server, comercioID int64, nome string, preco money.Valor, estoque int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &frog.Produto{
		ProdutoID:         s.nextID(),
		Nome:              nome,
		Preco:             preco,
		QuantidadeEstoque: estoque,
		ComercioID:        comercioID,
		CriadoEm:          time.Now().UTC(),
		AtualizadoEm:      time.Now().UTC(),
	}
	p.Codigo = fmt.Sprintf("P%04d", p.ProdutoID)
	s.produtos[p.ProdutoID] = p
	return p.ProdutoID
}

// AddMembro adiciona o usuário como membro do comércio.
func AddMembro(s *Server, comercioID, usuarioID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.comercios[comercioID]; ok {
		rec.membros[usuarioID] = true
	}
}

// SeedConvite gera um código de convite vigente para o comércio.
func SeedConvite(s *Server, comercioID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.comercios[comercioID]
	if !ok {
		return ""
	}
	if rec.linkConvite != "" {
		delete(s.convites, rec.linkConvite)
	}
	rec.linkConvite = uuid.NewString()
	s.convites[rec.linkConvite] = comercioID
	return rec.linkConvite
}

// SeedMovimentacaoAberta abre uma movimentação do tipo dado e devolve seu
// link.
func SeedMovimentacaoAberta(s *Server, comercioID int64, tipo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	mov := s.novaMovimentacao(comercioID, tipo)
	return mov.Link
}
