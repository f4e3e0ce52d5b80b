package auth

import "context"

// Principal 当前请求的身份，未登录时为零值
type Principal struct {
	UserID   string
	Username string
}

// Authenticated 是否已登录
func (p Principal) Authenticated() bool { return p.UserID != "" }

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext 取出请求身份；未设置时返回匿名身份
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}
