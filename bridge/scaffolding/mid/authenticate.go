package mid

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrazmi/taskwire/bridge/scaffolding/errs"
	"github.com/jrazmi/taskwire/infrastructure/web"
)

// Authenticator resolves a bearer token to the id of the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// attaches the resolved user id to the context.
func Authenticate(auth Authenticator) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			token, ok := bearerToken(r)
			if !ok {
				return errs.Newf(errs.Unauthenticated, "Not authorized, no token")
			}

			userID, err := auth.Authenticate(ctx, token)
			if err != nil {
				return errs.Newf(errs.Unauthenticated, "Not authorized, token failed")
			}

			return next(SetUserID(ctx, userID), r)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
