package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-gather/api/response"
	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/gin-gonic/gin"
)

const (
	// ContextPlayerToken is the key used to store the player token in the Gin context.
	ContextPlayerToken = "playerToken"

	tokenLength = 32
)

// TokenAuthorizer tells whether a token belongs to an active player.
type TokenAuthorizer interface {
	Authorize(token game.Token) bool
}

// Authorize rejects requests without the bearer token of an active player.
func Authorize(ta TokenAuthorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.CodeInvalidToken, "Authorization header is missing")
			return
		}

		if !ta.Authorize(token) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnknownToken, "Player token has not been found")
			return
		}

		c.Set(ContextPlayerToken, token)
		c.Next()
	}
}

// PlayerToken returns the token stored by Authorize.
func PlayerToken(c *gin.Context) game.Token {
	token, _ := c.Get(ContextPlayerToken)
	t, _ := token.(game.Token)
	return t
}

func bearerToken(header string) (game.Token, bool) {
	// Split the "Bearer" prefix from the token.
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if len(token) != tokenLength {
		return "", false
	}
	return game.Token(token), true
}
