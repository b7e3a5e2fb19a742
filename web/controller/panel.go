package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/web/middleware"
	"github.com/tridentstudios/sitepanel/web/service"
)

// PanelController mounts the authenticated panel API under /panel/api.
type PanelController struct {
	BaseController

	publishController    *PublishController
	backupController     *BackupController
	auditController      *AuditController
	userAdminController  *UserAdminController
	artistCardController *ArtistCardController
	serverController     *ServerController
}

func NewPanelController(g *gin.RouterGroup, publishService *service.PublishService, backupStore *service.BackupStore) *PanelController {
	a := &PanelController{}
	a.initRouter(g, publishService, backupStore)
	return a
}

func (a *PanelController) initRouter(g *gin.RouterGroup, publishService *service.PublishService, backupStore *service.BackupStore) {
	g = g.Group("/panel/api")

	// Publish and restore accept per-request role claims, so they sit
	// outside the session check. Their services authorize every call.
	a.publishController = NewPublishController(g, publishService)
	a.backupController = NewBackupController(g, backupStore)

	auth := g.Group("")
	auth.Use(a.checkLogin)
	a.auditController = NewAuditController(auth)
	a.userAdminController = NewUserAdminController(auth)
	a.artistCardController = NewArtistCardController(auth)

	admin := auth.Group("")
	admin.Use(middleware.RoleRequired(model.RoleAdmin))
	a.serverController = NewServerController(admin)
}
