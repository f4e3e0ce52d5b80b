package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/pkg/response"
)

// ListReactions 用户收到的互动（仅本人）
// @Summary 互动流：评论、帖子点赞、评论点赞、新粉丝，按时间倒序
// @Tags 互动
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.ReactionFeed}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reactions/{username} [get]
func (h *Handler) ListReactions(c *gin.Context) {
	feed, err := h.reactionService.List(c.Request.Context(), principal(c).UserID, c.Param("username"))
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, feed)
}
