package auth

import "context"

type ctxKey string

const (
	ctxKeySub  ctxKey = "sub"
	ctxKeyName ctxKey = "name"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxKeyName, name)
}

// NameFromContext is the display name from the token, if any.
func NameFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyName); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
