package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/web/service"
	"github.com/tridentstudios/sitepanel/web/session"
)

// UserForm is the admin create/update payload for one account.
type UserForm struct {
	Email        string       `json:"email" form:"email"`
	Username     string       `json:"username" form:"username"`
	Password     string       `json:"password" form:"password"`
	Roles        []model.Role `json:"roles" form:"roles"`
	ArtistCardID string       `json:"artistCardId" form:"artistCardId"`
}

// UserAdminController is the admin-only account management surface.
type UserAdminController struct {
	userService      service.UserService
	userAdminService service.UserAdminService
	auditService     service.AuditLogService
	accessPolicy     service.AccessPolicy
}

func NewUserAdminController(g *gin.RouterGroup) *UserAdminController {
	a := &UserAdminController{}
	a.initRouter(g)
	return a
}

func (a *UserAdminController) initRouter(g *gin.RouterGroup) {
	g.GET("/users", a.list)
	g.POST("/users/sync", a.sync)
	g.POST("/users/add", a.add)
	g.POST("/users/roles/:id", a.updateRoles)
	g.POST("/users/card/:id", a.assignCard)
	g.POST("/users/password/:id", a.setPassword)
	g.POST("/users/del/:id", a.del)
}

func (a *UserAdminController) authorize(c *gin.Context, action service.Action) (*model.User, bool) {
	actor := session.GetLoginUser(c)
	if err := a.accessPolicy.Authorize(actor, action); err != nil {
		jsonMsg(c, "manage users", err)
		return nil, false
	}
	return actor, true
}

func (a *UserAdminController) list(c *gin.Context) {
	if _, ok := a.authorize(c, service.ActionManageUsers); !ok {
		return
	}
	users, err := a.userAdminService.ListUsers()
	jsonObj(c, users, err)
}

func (a *UserAdminController) sync(c *gin.Context) {
	actor, ok := a.authorize(c, service.ActionManageUsers)
	if !ok {
		return
	}
	var form struct {
		Users []service.SyncUser `json:"users" form:"users"`
	}
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid sync data")
		return
	}
	count, err := a.userService.SyncUsers(form.Users)
	if err != nil {
		jsonMsg(c, "sync users", err)
		return
	}
	a.auditService.Record(actor.Email, "Synced users", strconv.Itoa(count)+" accounts")
	jsonObj(c, gin.H{"synced": count}, nil)
}

func (a *UserAdminController) add(c *gin.Context) {
	actor, ok := a.authorize(c, service.ActionManageUsers)
	if !ok {
		return
	}
	var form UserForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user data")
		return
	}
	user, err := a.userAdminService.CreateUser(form.Email, form.Username, form.Password, form.Roles, form.ArtistCardID)
	if err != nil {
		jsonMsg(c, "create user", err)
		return
	}
	a.auditService.Record(actor.Email, "Created user", user.Email)
	jsonObj(c, user, nil)
}

func (a *UserAdminController) updateRoles(c *gin.Context) {
	actor, ok := a.authorize(c, service.ActionManageUsers)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	var form struct {
		Roles []model.Role `json:"roles" form:"roles"`
	}
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid role data")
		return
	}
	user, err := a.userAdminService.UpdateRoles(id, form.Roles)
	if err != nil {
		jsonMsg(c, "update roles", err)
		return
	}
	a.auditService.Record(actor.Email, "Updated roles", user.Email+" -> "+user.Roles)
	jsonObj(c, user, nil)
}

func (a *UserAdminController) assignCard(c *gin.Context) {
	actor, ok := a.authorize(c, service.ActionAssignArtistCard)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	var form struct {
		CardID string `json:"cardId" form:"cardId"`
	}
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid card data")
		return
	}
	user, err := a.userAdminService.AssignArtistCard(id, form.CardID)
	if err != nil {
		jsonMsg(c, "assign artist card", err)
		return
	}
	a.auditService.Record(actor.Email, "Assigned artist card", user.Email+" -> "+form.CardID)
	jsonObj(c, user, nil)
}

func (a *UserAdminController) setPassword(c *gin.Context) {
	if _, ok := a.authorize(c, service.ActionManageUsers); !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	var form struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid password data")
		return
	}
	jsonMsg(c, "password updated", a.userAdminService.SetPassword(id, form.Password))
}

func (a *UserAdminController) del(c *gin.Context) {
	actor, ok := a.authorize(c, service.ActionManageUsers)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid user id")
		return
	}
	if err := a.userAdminService.DeleteUser(id); err != nil {
		jsonMsg(c, "delete user", err)
		return
	}
	a.auditService.Record(actor.Email, "Deleted user", c.Param("id"))
	jsonMsg(c, "user deleted", nil)
}
