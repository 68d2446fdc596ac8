package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/gate"
	"go.uber.org/zap"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (a *API) gatePayload(c *gin.Context) gin.H {
	payload := gin.H{
		"state":         a.gate.State(a.deviceFlags(c), a.sessionFlags(c)),
		"misconfigured": a.gate.Misconfigured(),
	}
	if warning := a.gate.Warning(); warning != "" {
		payload["warning"] = warning
	}
	return payload
}

// ShowGate 返回当前设备与会话所处的门禁状态，以及未配置密码时的警告。
func (a *API) ShowGate(c *gin.Context) {
	c.JSON(http.StatusOK, a.gatePayload(c))
}

// TrustDevice 通过一次性链接中的 setup token 将当前浏览器标记为可信设备。
func (a *API) TrustDevice(c *gin.Context) {
	if err := a.gate.Trust(a.deviceFlags(c), c.Query("token")); err != nil {
		if errors.Is(err, gate.ErrInvalidSetupToken) {
			a.logger.Warn("rejected device setup token", zap.String("client_ip", c.ClientIP()))
			respondError(c, http.StatusForbidden, "invalid setup token")
			return
		}
		a.logger.Error("persist trusted device flag", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to save device trust")
		return
	}
	c.Redirect(http.StatusFound, "/admin/gate")
}

// Login 校验密码；未受信任的设备直接拒绝，不比较密码。
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "password is required") {
		return
	}

	if err := a.gate.Unlock(a.deviceFlags(c), a.sessionFlags(c), payload.Password); err != nil {
		handleGateError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.gatePayload(c))
}

// Logout ends the admin session. The device stays trusted.
func (a *API) Logout(c *gin.Context) {
	if err := a.gate.Lock(a.sessionFlags(c)); err != nil {
		handleGateError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.gatePayload(c))
}

// ForgetDevice revokes this browser's trusted-device flag.
func (a *API) ForgetDevice(c *gin.Context) {
	if err := a.gate.Forget(a.deviceFlags(c), a.sessionFlags(c)); err != nil {
		handleGateError(c, err)
		return
	}
	c.JSON(http.StatusOK, a.gatePayload(c))
}

// GateRequired 拦截未解锁的后台请求。
func (a *API) GateRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := a.gate.State(a.deviceFlags(c), a.sessionFlags(c))
		if state != gate.StateUnlocked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "admin access is locked",
				"state": state,
			})
			return
		}
		c.Next()
	}
}

func handleGateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gate.ErrUntrustedDevice):
		respondError(c, http.StatusForbidden, "this device is not trusted")
	case errors.Is(err, gate.ErrPasswordNotConfigured):
		respondError(c, http.StatusServiceUnavailable, gate.MissingPasswordWarning)
	case errors.Is(err, gate.ErrInvalidPassword):
		respondError(c, http.StatusUnauthorized, "wrong password")
	default:
		respondError(c, http.StatusInternalServerError, "failed to update session")
	}
}
