package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/internal/service"
	"github.com/d60-Lab/photogram/pkg/response"
)

type profileRequest struct {
	Username  string `form:"username" binding:"required,max=150,username"`
	Email     string `form:"email" binding:"required,email"`
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Biography string `form:"biography" binding:"max=512"`
}

// GetUser 用户主页
// @Summary 用户主页（资料、帖子、关注数）
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.ProfileView}
// @Failure 404 {object} response.Response
// @Router /users/{username} [get]
func (h *Handler) GetUser(c *gin.Context) {
	page, pageSize := pageParams(c)
	view, err := h.userService.Profile(c.Request.Context(), principal(c).UserID, c.Param("username"), page, pageSize)
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, view)
}

// EditProfileForm 资料编辑表单
// @Summary 获取资料编辑表单（仅本人）
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.ProfileForm}
// @Failure 401 {object} response.Response
// @Router /users/{username}/update [get]
func (h *Handler) EditProfileForm(c *gin.Context) {
	username := c.Param("username")
	form, err := h.userService.EditForm(c.Request.Context(), principal(c).UserID, username)
	if err != nil {
		handleError(c, err, "/users/"+url.PathEscape(username))
		return
	}
	response.Success(c, form)
}

// UpdateProfile 更新资料与头像
// @Summary 更新资料（仅本人）
// @Tags 用户
// @Accept multipart/form-data
// @Param username path string true "用户名"
// @Param username formData string true "新用户名"
// @Param email formData string true "邮箱"
// @Param first_name formData string false "名"
// @Param last_name formData string false "姓"
// @Param biography formData string false "简介"
// @Param image formData file false "头像"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /users/{username}/update [post]
func (h *Handler) UpdateProfile(c *gin.Context) {
	username := c.Param("username")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		if tooLarge(err) {
			response.ValidationFailed(c, map[string]string{"image": "File too large."})
			return
		}
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	avatar, closeFn, err := formImage(c, "image")
	if err != nil {
		response.ValidationFailed(c, map[string]string{"image": err.Error()})
		return
	}
	defer closeFn()

	user, err := h.userService.UpdateProfile(c.Request.Context(), principal(c).UserID, username, service.ProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Biography: req.Biography,
	}, avatar)
	if err != nil {
		handleError(c, err, "/users/"+url.PathEscape(username))
		return
	}
	c.Redirect(http.StatusFound, "/users/"+url.PathEscape(user.Username))
}

// formImage 读取可选的上传文件，未上传时返回 nil reader
func formImage(c *gin.Context, field string) (io.Reader, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		if tooLarge(err) {
			return nil, func() {}, errors.New("File too large.")
		}
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, errors.New("Upload a valid image.")
	}
	return f, func() { _ = f.Close() }, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
