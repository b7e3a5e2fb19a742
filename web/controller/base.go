// Package controller provides the HTTP handlers of the sitepanel admin API.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/web/session"
)

// BaseController provides common functionality for all controllers,
// including the login check used by the panel route group.
type BaseController struct{}

func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		pureJsonMsg(c, http.StatusUnauthorized, false, "please log in again")
		c.Abort()
	} else {
		c.Next()
	}
}
