package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/web/service"
	"github.com/tridentstudios/sitepanel/web/session"
)

// RestoreForm names the backup to restore, with optional actor claims.
type RestoreForm struct {
	Filename   string     `json:"filename" form:"filename"`
	ActorEmail string     `json:"actorEmail" form:"actorEmail"`
	ActorRole  model.Role `json:"actorRole" form:"actorRole"`
}

// BackupController exposes the backup listing and restore surface.
type BackupController struct {
	backupStore *service.BackupStore
	userService service.UserService
}

func NewBackupController(g *gin.RouterGroup, backupStore *service.BackupStore) *BackupController {
	a := &BackupController{backupStore: backupStore}
	a.initRouter(g)
	return a
}

func (a *BackupController) initRouter(g *gin.RouterGroup) {
	g.GET("/backups", a.list)
	g.POST("/backups/restore", a.restore)
}

func (a *BackupController) list(c *gin.Context) {
	entries, err := a.backupStore.List(c.Query("page"))
	if err != nil {
		jsonMsg(c, "list backups", err)
		return
	}
	jsonObj(c, entries, nil)
}

func (a *BackupController) restore(c *gin.Context) {
	var form RestoreForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid restore data")
		return
	}

	actor := session.GetLoginUser(c)
	if actor == nil {
		actor = a.userService.ResolveActor(form.ActorEmail, form.ActorRole)
	}
	receipt, err := a.backupStore.Restore(form.Filename, actor)
	if err != nil {
		jsonMsg(c, "restore backup", err)
		return
	}
	jsonObj(c, receipt, nil)
}
