package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/web/service"
	"github.com/tridentstudios/sitepanel/web/session"
)

// AuditController exposes the audit log to the panel.
type AuditController struct {
	auditService service.AuditLogService
}

func NewAuditController(g *gin.RouterGroup) *AuditController {
	a := &AuditController{}
	a.initRouter(g)
	return a
}

func (a *AuditController) initRouter(g *gin.RouterGroup) {
	g.POST("/audit/list", a.list)
	g.POST("/audit/clear", a.clear)
}

func (a *AuditController) list(c *gin.Context) {
	var form struct {
		Limit int `json:"limit" form:"limit"`
	}
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid list request")
		return
	}
	entries, err := a.auditService.List(form.Limit)
	if err != nil {
		jsonMsg(c, "list audit log", err)
		return
	}
	jsonObj(c, entries, nil)
}

func (a *AuditController) clear(c *gin.Context) {
	if err := a.auditService.Clear(session.GetLoginUser(c)); err != nil {
		jsonMsg(c, "clear audit log", err)
		return
	}
	jsonMsg(c, "audit log cleared", nil)
}
