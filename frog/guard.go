package frog

import "context"

// Decision resultado da avaliação de um guard.
type Decision int

const (
	// DecisionWait a sessão ainda está carregando; exibir placeholder.
	DecisionWait Decision = iota
	// DecisionAllow o conteúdo protegido pode ser apresentado.
	DecisionAllow
	// DecisionRedirect navegar para GuardResult.Target.
	DecisionRedirect
)

// GuardResult decisão mais o destino quando há redirecionamento.
type GuardResult struct {
	Decision Decision
	Target   string
}

// SessionGuard libera conteúdo apenas para sessões autenticadas; sem usuário,
// redireciona para a rota de login.
type SessionGuard struct {
	Session   *Session
	LoginPath string // padrão "/entrar"
}

// Evaluate decide com base no estado atual da sessão.
func (g SessionGuard) Evaluate() GuardResult {
	if g.Session.Loading() {
		return GuardResult{Decision: DecisionWait}
	}
	if g.Session.CurrentUser() == nil {
		target := g.LoginPath
		if target == "" {
			target = "/entrar"
		}
		return GuardResult{Decision: DecisionRedirect, Target: target}
	}
	return GuardResult{Decision: DecisionAllow}
}

// AnonymousGuard libera conteúdo apenas para visitantes. Com
// RedirectIfAuthenticated, sessões válidas são mandadas para HomePath.
type AnonymousGuard struct {
	Session                 *Session
	RedirectIfAuthenticated bool
	HomePath                string // padrão "/"
}

// Evaluate decide com base no estado atual da sessão.
func (g AnonymousGuard) Evaluate() GuardResult {
	if g.Session.Loading() {
		return GuardResult{Decision: DecisionWait}
	}
	if g.Session.CurrentUser() != nil && g.RedirectIfAuthenticated {
		target := g.HomePath
		if target == "" {
			target = "/"
		}
		return GuardResult{Decision: DecisionRedirect, Target: target}
	}
	return GuardResult{Decision: DecisionAllow}
}

// ComercioGuard verifica, além da sessão, que o usuário é membro do comércio
// da rota. A lista de comércios é rebuscada a cada avaliação para não negar
// acesso com filiação desatualizada (o usuário pode ter acabado de aceitar
// um convite).
type ComercioGuard struct {
	Session    *Session
	Comercios  *ComerciosService
	DeniedPath string // padrão "/meus-comercios"
}

// Evaluate rebusca a filiação e decide. Enquanto a sessão carrega o
// resultado é Wait, nunca uma negativa prematura.
func (g ComercioGuard) Evaluate(ctx context.Context, comercioID int64) GuardResult {
	if g.Session.Loading() {
		return GuardResult{Decision: DecisionWait}
	}
	if g.Session.CurrentUser() == nil {
		return SessionGuard{Session: g.Session}.Evaluate()
	}

	denied := g.DeniedPath
	if denied == "" {
		denied = "/meus-comercios"
	}
	resumos, err := g.Comercios.Meus(ctx)
	if err != nil {
		// Sem confirmação de filiação não há acesso; a tela de destino
		// permite tentar de novo.
		return GuardResult{Decision: DecisionRedirect, Target: denied}
	}
	for _, r := range resumos {
		if r.ComercioID == comercioID {
			return GuardResult{Decision: DecisionAllow}
		}
	}
	return GuardResult{Decision: DecisionRedirect, Target: denied}
}
