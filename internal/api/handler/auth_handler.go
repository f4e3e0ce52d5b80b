package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/internal/service"
	"github.com/d60-Lab/photogram/pkg/response"
)

type registerRequest struct {
	Username  string `form:"username" json:"username" binding:"required,max=150,username"`
	Email     string `form:"email" json:"email" binding:"required,email"`
	Password1 string `form:"password1" json:"password1" binding:"required,min=8"`
	Password2 string `form:"password2" json:"password2" binding:"required,eqfield=Password1"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type loginResponse struct {
	Token string              `json:"token"`
	User  service.UserSummary `json:"user"`
}

// Register 注册
// @Summary 注册新用户
// @Tags 用户
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param email formData string true "邮箱"
// @Param password1 formData string true "密码"
// @Param password2 formData string true "确认密码"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	_, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		handleError(c, err, "")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

// Login 登录，令牌写入 cookie 并在响应中返回
// @Summary 登录
// @Tags 用户
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Success 200 {object} response.Response{data=loginResponse}
// @Failure 400 {object} response.Response
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err, "")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, int(h.tokens.TTL().Seconds()), "/", "", h.cookie.Secure, true)
	response.Success(c, loginResponse{
		Token: token,
		User:  service.UserSummary{ID: user.ID, Username: user.Username, FirstName: user.FirstName, LastName: user.LastName},
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 用户
// @Success 302
// @Router /logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}
