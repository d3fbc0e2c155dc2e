package identity

import (
	"net/http"

	"github.com/beka-birhanu/vinom-gather/api/response"
	"github.com/beka-birhanu/vinom-gather/service"
	"github.com/gin-gonic/gin"
)

// Joiner adds players to maps.
type Joiner interface {
	Join(name, mapID string) (service.JoinResult, error)
}

// JoinRequest is the body of a join request.
type JoinRequest struct {
	UserName *string `json:"userName"`
	MapID    *string `json:"mapId"`
}

// JoinResponse identifies the joined player.
type JoinResponse struct {
	AuthToken string `json:"authToken"`
	PlayerID  int    `json:"playerId"`
}

// IdentityServer hands out player tokens.
type IdentityServer struct {
	joiner Joiner
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(j Joiner) *IdentityServer {
	return &IdentityServer{
		joiner: j,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/game/join", c.join)
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
}

// join handles a player joining a map.
func (c *IdentityServer) join(ctx *gin.Context) {
	var request JoinRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.UserName == nil || request.MapID == nil {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Join game request parse error")
		return
	}
	if *request.UserName == "" {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Invalid name")
		return
	}

	res, err := c.joiner.Join(*request.UserName, *request.MapID)
	if err != nil {
		response.FromError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &JoinResponse{
		AuthToken: string(res.Token),
		PlayerID:  res.PlayerID,
	})
}
