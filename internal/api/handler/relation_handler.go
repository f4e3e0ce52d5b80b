package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/pkg/response"
)

// Follow 关注/取消关注
// @Summary 切换关注（关注自己不生效）
// @Tags 关系链
// @Produce json
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} map[string]interface{} "{"success":true,"is_following":true}"
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/follow/{user_id} [get]
func (h *Handler) Follow(c *gin.Context) {
	following, err := h.relService.ToggleFollow(c.Request.Context(), principal(c).UserID, c.Param("user_id"))
	if err != nil {
		handleError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "is_following": following})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /users/{username}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("username"), page, pageSize)
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /users/{username}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.relService.ListFollowers(c.Request.Context(), c.Param("username"), page, pageSize)
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
