package handler

import (
	"errors"
	"net/http"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/photogram/config"
	"github.com/d60-Lab/photogram/internal/auth"
	"github.com/d60-Lab/photogram/internal/service"
	"github.com/d60-Lab/photogram/pkg/response"
)

// Services 处理器依赖的业务服务
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Posts     service.PostService
	Comments  service.CommentService
	Relations service.RelationshipService
	Reactions service.ReactionService
}

type Handler struct {
	authService     service.AuthService
	userService     service.UserService
	postService     service.PostService
	commentService  service.CommentService
	relService      service.RelationshipService
	reactionService service.ReactionService

	tokens    *auth.TokenIssuer
	cookie    config.JWTConfig
	maxUpload int64
}

func NewHandler(svc Services, tokens *auth.TokenIssuer, jwtCfg config.JWTConfig, uploadCfg config.UploadConfig) *Handler {
	if jwtCfg.CookieName == "" {
		jwtCfg.CookieName = "token"
	}
	maxUpload := uploadCfg.MaxBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &Handler{
		authService:     svc.Auth,
		userService:     svc.Users,
		postService:     svc.Posts,
		commentService:  svc.Comments,
		relService:      svc.Relations,
		reactionService: svc.Reactions,
		tokens:          tokens,
		cookie:          jwtCfg,
		maxUpload:       maxUpload,
	}
}

// CookieName 登录令牌 cookie 名
func (h *Handler) CookieName() string { return h.cookie.CookieName }

// Tokens 令牌签发器，供鉴权中间件使用
func (h *Handler) Tokens() *auth.TokenIssuer { return h.tokens }

func principal(c *gin.Context) auth.Principal {
	return auth.FromContext(c.Request.Context())
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}

func postURL(id string) string { return "/posts/" + id }

// handleError 将业务错误映射为 HTTP 响应；redirect 非空时越权操作跳转到该地址
func handleError(c *gin.Context, err error, redirect string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, service.ErrForbidden):
		if redirect != "" {
			c.Redirect(http.StatusFound, redirect)
			return
		}
		response.Forbidden(c, "forbidden")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.ValidationFailed(c, map[string]string{
			"__all__": "Please enter a correct username and password. Note that both fields may be case-sensitive.",
		})
	default:
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		response.InternalError(c, err)
	}
}
