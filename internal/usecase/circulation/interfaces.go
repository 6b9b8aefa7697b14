package circulation

import (
	"context"
	"net/http"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/internal/usecase/auth"
)

// Doer sends upstream requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenResolver hands out the access token resource calls are made with.
type TokenResolver interface {
	ResolveAccessToken(ctx context.Context, s *entity.Session) (auth.Token, error)
}
