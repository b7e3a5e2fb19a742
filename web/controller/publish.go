package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/web/service"
	"github.com/tridentstudios/sitepanel/web/session"
)

// PublishForm carries one publish request. The actor fields are claims for
// clients authenticating per request instead of via a panel session.
type PublishForm struct {
	PageName        string     `json:"pageName" form:"pageName"`
	FullPageContent string     `json:"fullPageContent" form:"fullPageContent"`
	ActorEmail      string     `json:"actorEmail" form:"actorEmail"`
	ActorRole       model.Role `json:"actorRole" form:"actorRole"`
}

// PublishController exposes the publish pipeline.
type PublishController struct {
	publishService *service.PublishService
	userService    service.UserService
}

func NewPublishController(g *gin.RouterGroup, publishService *service.PublishService) *PublishController {
	a := &PublishController{publishService: publishService}
	a.initRouter(g)
	return a
}

func (a *PublishController) initRouter(g *gin.RouterGroup) {
	g.POST("/publish", a.publish)
	g.GET("/pages/:name", a.pageContent)
}

// actor resolves who is performing the request: the session user when
// logged in, otherwise the request's claims checked against the user store.
func (a *PublishController) actor(c *gin.Context, email string, role model.Role) *model.User {
	if user := session.GetLoginUser(c); user != nil {
		return user
	}
	return a.userService.ResolveActor(email, role)
}

func (a *PublishController) publish(c *gin.Context) {
	var form PublishForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid publish data")
		return
	}

	actor := a.actor(c, form.ActorEmail, form.ActorRole)
	receipt, err := a.publishService.Publish(form.PageName, form.FullPageContent, actor)
	if err != nil {
		jsonMsg(c, "publish", err)
		return
	}
	jsonObj(c, receipt, nil)
}

func (a *PublishController) pageContent(c *gin.Context) {
	content, err := a.publishService.PageContent(c.Param("name"))
	if err != nil {
		jsonMsg(c, "read page", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(content))
}
