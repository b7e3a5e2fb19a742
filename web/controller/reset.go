package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/web/service"
)

// ResetForm is the multiplexed reset-password payload. Action selects
// between requesting a link, verifying a token, and redeeming one.
type ResetForm struct {
	Action   string `json:"action" form:"action"`
	Email    string `json:"email" form:"email"`
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

// ResetController serves the unauthenticated password reset endpoint.
type ResetController struct {
	resetService *service.PasswordResetService
}

func NewResetController(g *gin.RouterGroup, resetService *service.PasswordResetService) *ResetController {
	a := &ResetController{resetService: resetService}
	a.initRouter(g)
	return a
}

func (a *ResetController) initRouter(g *gin.RouterGroup) {
	g.POST("/reset-password", a.resetPassword)
}

func (a *ResetController) resetPassword(c *gin.Context) {
	var form ResetForm
	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, "invalid reset data")
		return
	}

	switch form.Action {
	case "request":
		baseURL := "https://" + c.Request.Host
		if err := a.resetService.Request(form.Email, baseURL); err != nil {
			jsonMsg(c, "request password reset", err)
			return
		}
		// Same answer whether or not the account exists.
		jsonMsg(c, "if the account exists, a reset link has been sent", nil)
	case "verify":
		if _, err := a.resetService.Verify(form.Token); err != nil {
			pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
			return
		}
		jsonMsg(c, "token is valid", nil)
	case "reset":
		if err := a.resetService.Reset(form.Token, form.Password); err != nil {
			pureJsonMsg(c, http.StatusBadRequest, false, err.Error())
			return
		}
		jsonMsg(c, "password updated", nil)
	default:
		pureJsonMsg(c, http.StatusBadRequest, false, "unknown action")
	}
}
