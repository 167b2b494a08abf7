package auth

import (
	"log/slog"
	"net/http"
	"time"

	lib "movieexplorer/src/modules/auth/lib"
	"movieexplorer/src/modules/auth/middleware"
	models "movieexplorer/src/modules/auth/models"
	auth "movieexplorer/src/modules/auth/services"
	"movieexplorer/src/utils"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service      *auth.Service
	cookieSecure bool
	logger       *slog.Logger
}

func NewController(service *auth.Service, cookieSecure bool, logger *slog.Logger) *Controller {
	return &Controller{service: service, cookieSecure: cookieSecure, logger: logger}
}

func (ctl *Controller) Login(c *gin.Context) {
	var req lib.LoginRequest
	if serr := utils.Bind(c, &req); serr != nil {
		utils.RespondError(c, serr)
		return
	}
	sess, err := ctl.service.Login(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctl.issue(c, sess)
	c.JSON(http.StatusOK, sessionBody(sess, "Login successful", "/home"))
}

func (ctl *Controller) SignUp(c *gin.Context) {
	var req lib.SignupRequest
	if serr := utils.Bind(c, &req); serr != nil {
		utils.RespondError(c, serr)
		return
	}
	sess, err := ctl.service.SignUp(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctl.issue(c, sess)
	c.JSON(http.StatusCreated, sessionBody(sess, "Signup successful", "/"))
}

func (ctl *Controller) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := ctl.service.Logout(c.Request.Context(), sess); err != nil {
		ctl.logger.Error("[Auth] could not delete session", slog.String("error", err.Error()))
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", ctl.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "redirect": "/"})
}

func (ctl *Controller) Me(c *gin.Context) {
	sess := ctl.service.RefreshProfile(c.Request.Context(), middleware.CurrentSession(c))
	c.JSON(http.StatusOK, sessionBody(sess, "", ""))
}

func (ctl *Controller) issue(c *gin.Context, sess *models.Session) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, sess.ID, maxAge, "/", "", ctl.cookieSecure, true)
	c.Header(middleware.HeaderName, sess.ID)
}

func sessionBody(sess *models.Session, message, redirect string) gin.H {
	body := gin.H{
		"session_id": sess.ID,
		"user":       sess.User(),
		"plan_type":  sess.PlanType,
		"supervisor": sess.IsSupervisor(),
		"premium":    sess.IsPremium(),
		"expires_at": sess.ExpiresAt,
	}
	if message != "" {
		body["message"] = message
	}
	if redirect != "" {
		body["redirect"] = redirect
	}
	return body
}
