// frogctl é a interface de linha de comando do Frog: sessão, consulta de
// catálogo e o fluxo completo de movimentação de estoque via carrinho.
//
// Configuração por env (FROG_BASE_URL, FROG_TIMEOUT_MS, FROG_LOG_LEVEL) ou
// arquivo .env; a credencial de sessão vem de FROG_TOKEN ou do login.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/frogstock/frog-go/frog"
	"github.com/frogstock/frog-go/pkg/config"
	"github.com/frogstock/frog-go/pkg/logger"
	"github.com/frogstock/frog-go/pkg/money"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		uso()
		return fmt.Errorf("nenhum comando informado")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuração: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	client := frog.NewClient(frog.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Logger:  log,
	})
	sess := frog.NewSession(client, log)
	ctx := context.Background()

	cmd, resto := args[0], args[1:]
	switch cmd {
	case "login":
		return cmdLogin(ctx, client, sess, resto)
	case "comercios":
		return comSessao(ctx, sess, func() error { return cmdComercios(ctx, client) })
	case "produtos":
		return comSessao(ctx, sess, func() error { return cmdProdutos(ctx, client, resto) })
	case "movimentar":
		return comSessao(ctx, sess, func() error { return cmdMovimentar(ctx, client, resto) })
	case "dashboard":
		return comSessao(ctx, sess, func() error { return cmdDashboard(ctx, client, resto) })
	default:
		uso()
		return fmt.Errorf("comando desconhecido: %s", cmd)
	}
}

func uso() {
	fmt.Fprintln(os.Stderr, `uso: frogctl <comando> [flags]

comandos:
  login       -email -senha         autentica e imprime o access token
  comercios                         lista os comércios do usuário
  produtos    -comercio             lista os produtos de um comércio
  movimentar  -comercio -tipo -itens  registra uma movimentação (ex.: -itens "3:2,5:1")
  dashboard   -comercio             imprime os cards do painel

A credencial vem de FROG_TOKEN; obtenha uma com "frogctl login".`)
}

// comSessao restaura a sessão de FROG_TOKEN antes de executar o comando.
func comSessao(ctx context.Context, sess *frog.Session, fn func() error) error {
	token := os.Getenv("FROG_TOKEN")
	if !sess.Restore(ctx, token) {
		return fmt.Errorf("sessão inválida; rode \"frogctl login\" e exporte FROG_TOKEN")
	}
	return fn()
}

func cmdLogin(ctx context.Context, client *frog.Client, sess *frog.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email do usuário")
	senha := fs.String("senha", "", "senha do usuário")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *senha == "" {
		return fmt.Errorf("login exige -email e -senha")
	}
	if !sess.Login(ctx, *email, *senha) {
		return fmt.Errorf("credenciais recusadas")
	}
	u := sess.CurrentUser()
	fmt.Fprintf(os.Stderr, "autenticado como %s\n", u.Email)
	// Token no stdout para export FROG_TOKEN=$(frogctl login ...)
	fmt.Println(client.Store().Get())
	return nil
}

func cmdComercios(ctx context.Context, client *frog.Client) error {
	resumos, err := client.Comercios.Meus(ctx)
	if err != nil {
		return err
	}
	for _, r := range resumos {
		papel := "membro"
		if r.IsProprietario {
			papel = "proprietário"
		}
		fmt.Printf("%d\t%s\t(%s)\n", r.ComercioID, r.Nome, papel)
	}
	return nil
}

func cmdProdutos(ctx context.Context, client *frog.Client, args []string) error {
	fs := flag.NewFlagSet("produtos", flag.ContinueOnError)
	comercioID := fs.Int64("comercio", 0, "id do comércio")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *comercioID == 0 {
		return fmt.Errorf("produtos exige -comercio")
	}
	produtos, err := client.Produtos.Listar(ctx, *comercioID)
	if err != nil {
		return err
	}
	for _, p := range produtos {
		fmt.Printf("%d\t%-8s\t%-30s\t%s\testoque=%d\n",
			p.ProdutoID, p.Codigo, p.Nome, money.FormatBRL(p.Preco), p.QuantidadeEstoque)
	}
	return nil
}

// cmdMovimentar abre uma movimentação, adiciona os itens pedidos e
// finaliza, imprimindo o total congelado.
func cmdMovimentar(ctx context.Context, client *frog.Client, args []string) error {
	fs := flag.NewFlagSet("movimentar", flag.ContinueOnError)
	comercioID := fs.Int64("comercio", 0, "id do comércio")
	tipo := fs.String("tipo", frog.TipoEntrada, "entrada ou saida")
	itens := fs.String("itens", "", "itens no formato produto:quantidade[,...]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *comercioID == 0 || *itens == "" {
		return fmt.Errorf("movimentar exige -comercio e -itens")
	}

	mov, err := client.Movimentacoes.Abrir(ctx, *comercioID, *tipo)
	if err != nil {
		return err
	}
	wf := client.Movimentacoes.Workflow(*comercioID, mov.Link)
	if _, err := wf.EnsureCarrinho(ctx); err != nil {
		return err
	}

	for _, par := range strings.Split(*itens, ",") {
		campos := strings.SplitN(strings.TrimSpace(par), ":", 2)
		if len(campos) != 2 {
			return fmt.Errorf("item inválido %q (esperado produto:quantidade)", par)
		}
		produtoID, err := strconv.ParseInt(campos[0], 10, 64)
		if err != nil {
			return fmt.Errorf("produto inválido em %q: %w", par, err)
		}
		quantidade, err := strconv.ParseInt(campos[1], 10, 64)
		if err != nil {
			return fmt.Errorf("quantidade inválida em %q: %w", par, err)
		}
		if _, err := wf.AddItem(ctx, produtoID, quantidade); err != nil {
			return fmt.Errorf("adicionar produto %d: %w", produtoID, err)
		}
	}

	fechada, err := wf.Finalizar(ctx, *tipo)
	if err != nil {
		return err
	}
	fmt.Printf("movimentação %d (%s) registrada: %d itens, total %s\n",
		fechada.Codigo, fechada.Tipo, fechada.TotalItens, money.FormatBRL(fechada.ValorTotal))
	return nil
}

func cmdDashboard(ctx context.Context, client *frog.Client, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	comercioID := fs.Int64("comercio", 0, "id do comércio")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *comercioID == 0 {
		return fmt.Errorf("dashboard exige -comercio")
	}
	cards, err := client.Dashboard.Cards(ctx, *comercioID)
	if err != nil {
		return err
	}
	fmt.Printf("produtos zerados:   %d\n", cards.ZeroCount)
	fmt.Printf("abaixo do limite:   %d\n", cards.LowCount)
	if cards.LimiteGlobal != nil {
		fmt.Printf("limite global:      %s\n", cards.LimiteGlobal.String())
	}
	mensais, err := client.Dashboard.MovimentacoesMensais(ctx, *comercioID)
	if err != nil {
		return err
	}
	for _, m := range mensais {
		fmt.Printf("%s  entradas=%s  saidas=%s\n", m.Mes, money.FormatBRL(m.Entradas), money.FormatBRL(m.Saidas))
	}
	return nil
}
