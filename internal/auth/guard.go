package auth

import (
	"context"
)

// Guard pre-flights an authenticated operation against token expiry.
//
// If the access token is expired it refreshes once and then runs op with its
// original arguments captured in the closure. The single pre-flight refresh
// is the only retry: if the refreshed token is itself immediately expired the
// operation's failure surfaces to the caller rather than looping on a
// misbehaving server or clock. A failed refresh never reaches op.
func Guard[T any](ctx context.Context, s *Session, op func(context.Context) (T, error)) (T, error) {
	if s.AccessTokenExpired() {
		if err := s.Refresh(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
	return op(ctx)
}

// GuardErr wraps operations without a result value.
func GuardErr(ctx context.Context, s *Session, op func(context.Context) error) error {
	_, err := Guard(ctx, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
