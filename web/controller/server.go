package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/web/service"
)

// ServerController serves the dashboard status snapshot.
type ServerController struct {
	serverService *service.ServerService
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	a := &ServerController{serverService: service.NewServerService()}
	a.initRouter(g)
	return a
}

func (a *ServerController) initRouter(g *gin.RouterGroup) {
	g.GET("/server/status", a.status)
}

func (a *ServerController) status(c *gin.Context) {
	jsonObj(c, a.serverService.GetStatus(), nil)
}
