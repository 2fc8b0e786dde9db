package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frogstock/frog-go/pkg/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Parse: vírgula brasileira e ponto decimal devem convergir no mesmo valor
// ──────────────────────────────────────────────────────────────────────────────

func TestParse_VirgulaEPonto(t *testing.T) {
	casos := []struct {
		entrada string
		quer    string
	}{
		{"10.50", "10.50"},
		{"10,50", "10.50"},
		{"1.234,56", "1234.56"},
		{"  31.5 ", "31.50"},
		{"0", "0.00"},
	}
	for _, c := range casos {
		v, err := money.Parse(c.entrada)
		require.NoError(t, err, "Parse(%q) não deve falhar", c.entrada)
		assert.Equal(t, c.quer, v.String(), "Parse(%q)", c.entrada)
	}
}

func TestParse_Invalido(t *testing.T) {
	for _, entrada := range []string{"", "abc", "10,5,0"} {
		_, err := money.Parse(entrada)
		assert.Error(t, err, "Parse(%q) deve falhar", entrada)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// JSON: aceita número, string e null; serializa sempre como "31.50"
// ──────────────────────────────────────────────────────────────────────────────

func TestJSON_FormatosAceitos(t *testing.T) {
	type doc struct {
		Preco money.Valor `json:"preco"`
	}
	casos := []struct {
		corpo string
		quer  string
	}{
		{`{"preco": 10.5}`, "10.50"},
		{`{"preco": "10.50"}`, "10.50"},
		{`{"preco": "10,50"}`, "10.50"},
		{`{"preco": null}`, "0.00"},
	}
	for _, c := range casos {
		var d doc
		require.NoError(t, json.Unmarshal([]byte(c.corpo), &d), "corpo %s", c.corpo)
		assert.Equal(t, c.quer, d.Preco.String(), "corpo %s", c.corpo)
	}
}

func TestJSON_SerializaCanonico(t *testing.T) {
	b, err := json.Marshal(money.MustParse("31.5"))
	require.NoError(t, err)
	assert.Equal(t, `"31.50"`, string(b))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aritmética: o cenário clássico 10.50 × 3 = 31.50 sem erro binário
// ──────────────────────────────────────────────────────────────────────────────

func TestMulInt_SemErroBinario(t *testing.T) {
	preco := money.MustParse("10.50")
	subtotal := preco.MulInt(3)
	assert.Equal(t, "31.50", subtotal.String(),
		"três unidades de 10.50 devem dar exatamente 31.50")

	total := money.Zero.Add(subtotal).Add(money.MustParse("0.01"))
	assert.Equal(t, "31.51", total.String())
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", money.FormatBRL(money.MustParse("1234.56")))
	assert.Equal(t, "R$ 31,50", money.FormatBRL(money.MustParse("31.5")))
}
