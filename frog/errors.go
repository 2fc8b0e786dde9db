package frog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Erros sentinela do cliente (sem dependências externas).
var (
	// ErrSessaoEncerrada indica que o refresh falhou e a sessão local foi derrubada.
	ErrSessaoEncerrada = errors.New("sessão encerrada")
	// ErrEntradaInvalida indica validação local reprovada; nenhuma requisição foi feita.
	ErrEntradaInvalida = errors.New("entrada inválida")
	// ErrMovimentacaoFechada indica tentativa de mutação em movimentação já finalizada.
	ErrMovimentacaoFechada = errors.New("movimentação fechada")
	// ErrFormatoDesconhecido indica resposta do carrinho em formato não reconhecido.
	ErrFormatoDesconhecido = errors.New("formato de resposta desconhecido")
)

// APIError é um erro devolvido pelo backend Frog, com o status HTTP e a
// mensagem extraída do corpo (o servidor varia entre msg, message, mensagem
// e error dependendo da rota).
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

// Error implementa error.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("frog: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("frog: HTTP %d", e.Status)
}

// Unauthorized informa se o erro é de autorização (401).
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// NotFound informa se o recurso não existe (404).
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

type corpoErro struct {
	Msg      string `json:"msg"`
	Message  string `json:"message"`
	Mensagem string `json:"mensagem"`
	Err      string `json:"error"`
}

// parseAPIError monta um *APIError a partir do status e corpo da resposta.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}
	var c corpoErro
	if json.Unmarshal(body, &c) == nil {
		switch {
		case c.Msg != "":
			e.Message = c.Msg
		case c.Message != "":
			e.Message = c.Message
		case c.Mensagem != "":
			e.Message = c.Mensagem
		case c.Err != "":
			e.Message = c.Err
		}
	}
	return e
}

// carrinhoAusente reconhece o sinal de "carrinho inexistente" que dispara a
// criação preguiçosa: 404, 400 ou mensagem contendo "não encontrado".
func carrinhoAusente(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusBadRequest {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "não encontrado")
}
