package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/pkg/response"
)

type createPostRequest struct {
	Description string `form:"description" binding:"max=512"`
	Tags        string `form:"tags" binding:"max=1024"`
}

type editPostRequest struct {
	Description string `form:"description" json:"description" binding:"max=512"`
}

type addTagsRequest struct {
	Tags string `form:"tags" json:"tags" binding:"required,max=1024"`
}

// Index 首页帖子流
// @Summary 全部帖子（按时间倒序）
// @Tags 帖子
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	page, pageSize := pageParams(c)
	res, err := h.postService.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, res)
}

// CreatePost 发布帖子
// @Summary 发布帖子
// @Tags 帖子
// @Accept multipart/form-data
// @Param image formData file true "图片"
// @Param description formData string false "描述"
// @Param tags formData string false "标签，逗号分隔"
// @Success 302
// @Failure 400 {object} response.Response
// @Router /posts/create [post]
func (h *Handler) CreatePost(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	var req createPostRequest
	if err := c.ShouldBind(&req); err != nil {
		if tooLarge(err) {
			response.ValidationFailed(c, map[string]string{"image": "File too large."})
			return
		}
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	image, closeFn, err := formImage(c, "image")
	if err != nil {
		response.ValidationFailed(c, map[string]string{"image": err.Error()})
		return
	}
	defer closeFn()

	if _, err := h.postService.Create(c.Request.Context(), principal(c).UserID, image, req.Description, req.Tags); err != nil {
		handleError(c, err, "")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// GetPost 帖子详情
// @Summary 帖子详情（评论、点赞数、是否已点赞）
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response{data=service.PostDetail}
// @Failure 404 {object} response.Response
// @Router /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	detail, err := h.postService.Get(c.Request.Context(), principal(c).UserID, c.Param("id"))
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, detail)
}

// LikePost 点赞/取消点赞
// @Summary 切换帖子点赞
// @Tags 帖子
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} map[string]interface{} "{"success":true,"liked":true,"likes_count":1}"
// @Failure 404 {object} response.Response
// @Router /posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	res, err := h.postService.ToggleLike(c.Request.Context(), principal(c).UserID, c.Param("id"))
	if err != nil {
		handleError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "liked": res.Active, "likes_count": res.Count})
}

// DeletePost 删除帖子（仅作者）
// @Summary 删除帖子
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Success 302
// @Router /posts/{id}/delete [post]
func (h *Handler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if err := h.postService.Delete(c.Request.Context(), principal(c).UserID, id); err != nil {
		handleError(c, err, postURL(id))
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// EditPost 修改描述（仅作者）
// @Summary 修改帖子描述
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Param description formData string false "描述"
// @Success 302
// @Router /posts/{id}/edit [post]
func (h *Handler) EditPost(c *gin.Context) {
	id := c.Param("id")
	var req editPostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	if err := h.postService.UpdateDescription(c.Request.Context(), principal(c).UserID, id, req.Description); err != nil {
		handleError(c, err, postURL(id))
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// AddTags 给帖子追加标签（仅作者）
// @Summary 追加标签
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Param tags formData string true "标签，逗号分隔"
// @Success 302
// @Router /posts/{id}/tags/create [post]
func (h *Handler) AddTags(c *gin.Context) {
	id := c.Param("id")
	var req addTagsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFailed(c, bindErrors(err))
		return
	}
	if err := h.postService.AddTags(c.Request.Context(), principal(c).UserID, id, req.Tags); err != nil {
		handleError(c, err, postURL(id))
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// RemoveTag 移除帖子的标签（仅作者）
// @Summary 移除标签
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Param tag_id path int true "标签ID"
// @Success 302
// @Router /posts/{id}/tags/{tag_id}/remove [post]
func (h *Handler) RemoveTag(c *gin.Context) {
	id := c.Param("id")
	tagID, err := strconv.ParseUint(c.Param("tag_id"), 10, 64)
	if err != nil {
		response.NotFound(c, "not found")
		return
	}
	if err := h.postService.RemoveTag(c.Request.Context(), principal(c).UserID, id, uint(tagID)); err != nil {
		handleError(c, err, postURL(id))
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// GetTag 标签下的帖子
// @Summary 标签页
// @Tags 帖子
// @Produce json
// @Param name path string true "标签名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.TagPage}
// @Failure 404 {object} response.Response
// @Router /tags/{name} [get]
func (h *Handler) GetTag(c *gin.Context) {
	page, pageSize := pageParams(c)
	res, err := h.postService.ListByTag(c.Request.Context(), c.Param("name"), page, pageSize)
	if err != nil {
		handleError(c, err, "")
		return
	}
	response.Success(c, res)
}
