package controller

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tridentstudios/sitepanel/logger"
	"github.com/tridentstudios/sitepanel/web/entity"
	"github.com/tridentstudios/sitepanel/web/service"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

// jsonMsgObj sends a JSON response with a message, object, and error
// status. Service-layer errors pick their HTTP status from the taxonomy in
// statusForErr; everything else is an internal error.
func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
		c.JSON(http.StatusOK, m)
		return
	}
	m.Success = false
	if msg != "" {
		m.Msg = msg + " (" + err.Error() + ")"
	} else {
		m.Msg = err.Error()
	}
	logger.Warning(msg+" failed: ", err)
	c.JSON(statusForErr(err), m)
}

func statusForErr(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrEmptyContent):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrBackupNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}
