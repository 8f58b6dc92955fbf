package auth

import "context"

type claimsKey struct{}

// 検証済みのアクセストークンをcontextに載せる
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
