package frog

import "context"

// ConvitesService resgate de convites para ingressar em um comércio.
type ConvitesService struct {
	c *Client
}

// Get consulta um convite pelo código. Convite inexistente ou expirado volta
// com IsValid false e a mensagem do servidor.
func (s *ConvitesService) Get(ctx context.Context, codigo string) (*Convite, error) {
	var out Convite
	if err := s.c.Get(ctx, "/convites/"+codigo, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Aceitar resgata o convite, adicionando o usuário corrente ao comércio.
func (s *ConvitesService) Aceitar(ctx context.Context, codigo string) error {
	body := map[string]string{"inviteCode": codigo}
	return s.c.Post(ctx, "/convites", body, nil)
}
