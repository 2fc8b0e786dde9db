package frog

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/frogstock/frog-go/pkg/logger"
)

// DefaultTimeout timeout padrão de requisição, igual ao do cliente original.
const DefaultTimeout = 5 * time.Second

// Options parâmetros de construção do Client.
type Options struct {
	// BaseURL endereço do backend Frog (obrigatório).
	BaseURL string
	// Timeout timeout fixo por requisição; zero usa DefaultTimeout.
	Timeout time.Duration
	// Logger logger estruturado; nil usa um logger descartável.
	Logger *logger.Logger
}

// Client é o wrapper HTTP do Frog: anexa a credencial do TokenStore, negocia
// JSON, mantém o cookie de refresh e, diante de um 401 ainda não retentado,
// aciona o RefreshCoordinator uma única vez antes de repetir a requisição.
//
// Todo o estado de sessão vive na instância (store, coordenador, cookie jar);
// dois Clients são duas sessões independentes.
type Client struct {
	rc        *resty.Client
	store     *TokenStore
	refresher *RefreshCoordinator
	log       *logger.Logger

	Comercios     *ComerciosService
	Produtos      *ProdutosService
	Categorias    *CategoriasService
	Fornecedores  *FornecedoresService
	Unidades      *UnidadesService
	Movimentacoes *MovimentacoesService
	Dashboard     *DashboardService
	Convites      *ConvitesService
}

// NewClient constrói o cliente Frog.
func NewClient(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	// O refresh token chega como cookie HttpOnly; o jar o devolve em /refresh.
	if jar, err := cookiejar.New(nil); err == nil {
		rc.SetCookieJar(jar)
	}

	c := &Client{
		rc:    rc,
		store: NewTokenStore(),
		log:   log,
	}
	c.refresher = NewRefreshCoordinator(c.store, c.refreshToken)

	c.Comercios = &ComerciosService{c: c}
	c.Produtos = &ProdutosService{c: c}
	c.Categorias = &CategoriasService{c: c}
	c.Fornecedores = &FornecedoresService{c: c}
	c.Unidades = &UnidadesService{c: c}
	c.Movimentacoes = &MovimentacoesService{c: c}
	c.Dashboard = &DashboardService{c: c}
	c.Convites = &ConvitesService{c: c}
	return c
}

// Store devolve o TokenStore da sessão deste cliente.
func (c *Client) Store() *TokenStore {
	return c.store
}

// Refresher devolve o coordenador de refresh deste cliente.
func (c *Client) Refresher() *RefreshCoordinator {
	return c.refresher
}

// refreshToken troca o refresh cookie por um access token novo. A chamada é
// feita fora do ciclo de retry de 401: um refresh que falha encerra a sessão.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetResult(&out).
		Execute("POST", "/refresh")
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", parseAPIError(resp.StatusCode(), resp.Body())
	}
	c.log.Debug().Msg("credencial renovada via refresh")
	return out.AccessToken, nil
}

// execute dispara uma requisição única, sem retry, anexando a credencial
// atual do store e um X-Request-ID novo.
func (c *Client) execute(ctx context.Context, method, path string, body any, query url.Values, out any) (*resty.Response, error) {
	req := c.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if tok := c.store.Get(); tok != "" {
		req.SetAuthToken(tok)
	}
	if body != nil {
		req.SetBody(body)
	}
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if out != nil {
		req.SetResult(out)
	}
	return req.Execute(method, path)
}

// do executa a requisição com a política documentada: um único retry após
// refresh quando a resposta é 401; um segundo 401 é devolvido ao chamador
// sem modificação. Erros que não são de autorização passam direto.
func (c *Client) do(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	resp, err := c.execute(ctx, method, path, body, query, out)
	if err != nil {
		return err
	}
	if resp.StatusCode() == 401 {
		c.log.Debug().Str("method", method).Str("path", path).Msg("401, tentando refresh")
		if _, rerr := c.refresher.Refresh(ctx); rerr != nil {
			return rerr
		}
		resp, err = c.execute(ctx, method, path, body, query, out)
		if err != nil {
			return err
		}
	}
	if !resp.IsSuccess() {
		return parseAPIError(resp.StatusCode(), resp.Body())
	}
	return nil
}

// Get executa GET; query pode ser nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, "GET", path, nil, query, out)
}

// Post executa POST com corpo JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, "POST", path, body, nil, out)
}

// Put executa PUT com corpo JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, "PUT", path, body, nil, out)
}

// Patch executa PATCH com corpo JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, "PATCH", path, body, nil, out)
}

// Delete executa DELETE; query pode ser nil.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, "DELETE", path, nil, query, out)
}
