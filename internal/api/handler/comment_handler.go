package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/pkg/response"
)

type commentRequest struct {
	Text string `form:"text" json:"text" binding:"required,max=512"`
}

func commentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "not found")
		return 0, false
	}
	return uint(id), true
}

// CreateComment 发表评论，路径参数为帖子ID
// @Summary 发表评论
// @Tags 评论
// @Param id path string true "帖子ID"
// @Param text formData string true "评论内容"
// @Success 302
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /comments/{id}/create [post]
func (h *Handler) CreateComment(c *gin.Context) {
	postID := c.Param("id")
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	if _, err := h.commentService.Create(c.Request.Context(), principal(c).UserID, postID, req.Text); err != nil {
		handleError(c, err, postURL(postID))
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}

// UpdateComment 修改评论（仅作者）
// @Summary 修改评论
// @Tags 评论
// @Param id path int true "评论ID"
// @Param text formData string true "评论内容"
// @Success 302
// @Router /comments/{id}/update [post]
func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := commentID(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	postID, err := h.commentService.Update(c.Request.Context(), principal(c).UserID, id, req.Text)
	if err != nil {
		handleError(c, err, postURL(postID))
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}

// DeleteComment 删除评论（仅作者）
// @Summary 删除评论
// @Tags 评论
// @Param id path int true "评论ID"
// @Success 302
// @Router /comments/{id}/delete [post]
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := commentID(c)
	if !ok {
		return
	}
	postID, err := h.commentService.Delete(c.Request.Context(), principal(c).UserID, id)
	if err != nil {
		handleError(c, err, postURL(postID))
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}

// LikeComment 评论点赞/取消点赞
// @Summary 切换评论点赞
// @Tags 评论
// @Param id path int true "评论ID"
// @Success 302
// @Failure 404 {object} response.Response
// @Router /comments/{id}/like [post]
func (h *Handler) LikeComment(c *gin.Context) {
	id, ok := commentID(c)
	if !ok {
		return
	}
	postID, _, err := h.commentService.ToggleLike(c.Request.Context(), principal(c).UserID, id)
	if err != nil {
		handleError(c, err, "")
		return
	}
	c.Redirect(http.StatusFound, postURL(postID))
}
