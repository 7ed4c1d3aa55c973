package http

import (
	"errors"
	"net/http"
	"strings"

	"dispatch/internal/core/domain/model/access"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const actorContextKey = "dispatch.actor"

var errActorMissing = errors.New("no authenticated actor on request")

// TokenParser turns a bearer token into the actor it was issued for.
type TokenParser interface {
	Parse(token string) (access.Actor, error)
}

// authenticate requires a valid bearer token and stores the actor on the
// context. The reason a token was refused is logged, not returned.
func authenticate(parser TokenParser, skipper middleware.Skipper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			actor, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token").SetInternal(err)
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (access.Actor, error) {
	actor, ok := c.Get(actorContextKey).(access.Actor)
	if !ok {
		return access.Actor{}, errActorMissing
	}
	return actor, nil
}
