package controller

import (
	"net/http"
	"text/template"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/logger"
	"github.com/tridentstudios/sitepanel/web/service"
	"github.com/tridentstudios/sitepanel/web/session"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// IndexController handles login and logout.
type IndexController struct {
	BaseController

	settingService service.SettingService
	userService    service.UserService
	auditService   service.AuditLogService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/logout", a.logout)
	g.POST("/login", a.login)
}

func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, "invalid login data")
		return
	}
	if form.Email == "" {
		pureJsonMsg(c, http.StatusOK, false, "email is required")
		return
	}
	if form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, "password is required")
		return
	}

	user := a.userService.CheckUser(form.Email, form.Password)
	safeEmail := template.HTMLEscapeString(form.Email)

	if user == nil {
		logger.Warningf("wrong credentials for \"%s\", IP: \"%s\"", safeEmail, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, "wrong email or password")
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("unable to get session max age:", err)
	}

	session.SetMaxAge(c, sessionMaxAge*60)
	session.SetLoginUser(c, user)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("unable to save session:", err)
		return
	}

	a.userService.UpdateLastLogin(user)
	a.auditService.Record(user.Email, "Logged in", getRemoteIp(c)+" at "+time.Now().Format("2006-01-02 15:04:05"))
	logger.Infof("%s logged in successfully, IP: %s", safeEmail, getRemoteIp(c))
	jsonObj(c, user, nil)
}

func (a *IndexController) logout(c *gin.Context) {
	user := session.GetLoginUser(c)
	if user != nil {
		logger.Infof("%s logged out", user.Email)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("unable to save session after clearing:", err)
	}
	jsonMsg(c, "logged out", nil)
}
