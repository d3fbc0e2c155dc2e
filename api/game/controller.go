package gameapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-gather/api/identity"
	"github.com/beka-birhanu/vinom-gather/api/response"
	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/service"
	"github.com/gin-gonic/gin"
)

// Service is the part of the game service the controller drives.
type Service interface {
	Players(token game.Token) ([]service.PlayerInfo, error)
	State(token game.Token) (service.SessionState, error)
	Action(token game.Token, move string) error
	ManualTick(ctx context.Context, dt time.Duration) error
	Records(ctx context.Context, start, limit int) ([]game.Record, error)
}

// Controller serves the running game.
type Controller struct {
	service Service
}

// NewController creates a new game Controller.
func NewController(s Service) *Controller {
	return &Controller{service: s}
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/game/tick", c.tick)
	route.Match([]string{http.MethodGet, http.MethodHead}, "/game/records", c.records)
}

// RegisterProtected registers privileged routes.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {
	route.Match([]string{http.MethodGet, http.MethodHead}, "/game/players", c.players)
	route.Match([]string{http.MethodGet, http.MethodHead}, "/game/state", c.state)
	route.POST("/game/player/action", c.action)
}

func (c *Controller) players(ctx *gin.Context) {
	players, err := c.service.Players(identity.PlayerToken(ctx))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPlayersResponse(players))
}

func (c *Controller) state(ctx *gin.Context) {
	st, err := c.service.State(identity.PlayerToken(ctx))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newStateResponse(st))
}

func (c *Controller) action(ctx *gin.Context) {
	if ctx.ContentType() != gin.MIMEJSON {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Invalid content type")
		return
	}

	var request ActionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.Move == nil {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Failed to parse action")
		return
	}

	if err := c.service.Action(identity.PlayerToken(ctx), *request.Move); err != nil {
		response.FromError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{})
}

func (c *Controller) tick(ctx *gin.Context) {
	var request TickRequest
	if err := ctx.ShouldBindJSON(&request); err != nil || request.TimeDelta == nil {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Failed to parse tick request JSON")
		return
	}

	dt := time.Duration(*request.TimeDelta) * time.Millisecond
	if err := c.service.ManualTick(ctx.Request.Context(), dt); err != nil {
		response.FromError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{})
}

func (c *Controller) records(ctx *gin.Context) {
	start, err := queryInt(ctx, "start", 0)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Invalid start")
		return
	}
	limit, err := queryInt(ctx, "maxItems", service.MaxRecords)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, response.CodeInvalidArgument, "Invalid maxItems")
		return
	}

	records, err := c.service.Records(ctx.Request.Context(), start, limit)
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newRecordsResponse(records))
}

func queryInt(ctx *gin.Context, key string, fallback int) (int, error) {
	v, ok := ctx.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
