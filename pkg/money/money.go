// Package money concentra o tratamento de valores monetários do Frog.
// O backend serializa valores como string decimal ("10.50") mas telas e
// planilhas brasileiras usam vírgula ("10,50"); aqui tudo é normalizado
// para decimal.Decimal antes de qualquer aritmética.
package money

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Valor representa um valor monetário com precisão decimal.
// No JSON aceita número, string com ponto ou string com vírgula; serializa
// sempre como string com duas casas ("31.50").
type Valor struct {
	decimal.Decimal
}

// Zero valor monetário zero.
var Zero = Valor{decimal.Zero}

// Parse normaliza uma string monetária (vírgula ou ponto decimal) para Valor.
func Parse(s string) (Valor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("money: valor vazio")
	}
	// "1.234,56" -> "1234.56"; "10,50" -> "10.50"
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("money: %q não é um valor monetário: %w", s, err)
	}
	return Valor{d}, nil
}

// MustParse é Parse com panic; só para constantes de teste e seeds.
func MustParse(s string) Valor {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromDecimal embala um decimal.Decimal.
func FromDecimal(d decimal.Decimal) Valor {
	return Valor{d}
}

// FromInt cria um Valor inteiro.
func FromInt(n int64) Valor {
	return Valor{decimal.NewFromInt(n)}
}

// Mul devolve v × outro.
func (v Valor) Mul(outro Valor) Valor {
	return Valor{v.Decimal.Mul(outro.Decimal)}
}

// MulInt devolve v × n (quantidades são inteiras no Frog).
func (v Valor) MulInt(n int64) Valor {
	return Valor{v.Decimal.Mul(decimal.NewFromInt(n))}
}

// Add devolve v + outro.
func (v Valor) Add(outro Valor) Valor {
	return Valor{v.Decimal.Add(outro.Decimal)}
}

// Equal compara ignorando casas decimais de diferença de representação.
func (v Valor) Equal(outro Valor) bool {
	return v.Decimal.Equal(outro.Decimal)
}

// String devolve a forma canônica com duas casas e ponto decimal.
func (v Valor) String() string {
	return v.Decimal.StringFixed(2)
}

// MarshalJSON serializa como string canônica ("31.50").
func (v Valor) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// UnmarshalJSON aceita null, número JSON e string (com vírgula ou ponto).
func (v *Valor) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		v.Decimal = decimal.Zero
		return nil
	}
	s := string(b)
	if s[0] == '"' {
		s = strings.Trim(s, `"`)
		if s == "" {
			v.Decimal = decimal.Zero
			return nil
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		v.Decimal = parsed.Decimal
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: %s não é um valor monetário: %w", s, err)
	}
	v.Decimal = d
	return nil
}

var printerPTBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formata para exibição em pt-BR: "R$ 1.234,56".
func FormatBRL(v Valor) string {
	f, _ := v.Decimal.Round(2).Float64()
	return printerPTBR.Sprintf("R$ %v", number.Decimal(f, number.Scale(2)))
}
