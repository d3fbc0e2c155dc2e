// Package maps serves the static description of the game maps.
package maps

import (
	"net/http"

	"github.com/beka-birhanu/vinom-gather/api/response"
	"github.com/beka-birhanu/vinom-gather/game"
	"github.com/beka-birhanu/vinom-gather/service"
	"github.com/gin-gonic/gin"
)

// Provider gives read access to the loaded maps.
type Provider interface {
	Maps() []service.MapSummary
	Map(id string) (*game.Map, error)
}

// Controller serves the maps.
type Controller struct {
	provider Provider
}

// NewController creates a new maps Controller.
func NewController(p Provider) *Controller {
	return &Controller{provider: p}
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	readOnly := []string{http.MethodGet, http.MethodHead}
	route.Match(readOnly, "/maps", c.list)
	route.Match(readOnly, "/maps/:id", c.get)
}

// RegisterProtected registers privileged routes.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {
}

func (c *Controller) list(ctx *gin.Context) {
	maps := c.provider.Maps()
	res := make([]MapSummaryResponse, 0, len(maps))
	for _, m := range maps {
		res = append(res, MapSummaryResponse{ID: m.ID, Name: m.Name})
	}
	ctx.JSON(http.StatusOK, res)
}

func (c *Controller) get(ctx *gin.Context) {
	m, err := c.provider.Map(ctx.Param("id"))
	if err != nil {
		response.FromError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newMapResponse(m))
}
