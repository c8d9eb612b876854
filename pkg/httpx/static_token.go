package httpx

import (
	"context"
	"errors"
)

var ErrTokenRejected = errors.New("static token rejected")

// StaticToken authenticates with a fixed API key. It cannot refresh, so a
// rejected key surfaces as ErrTokenRejected instead of being retried.
type StaticToken string

func (t StaticToken) Authenticate(context.Context) error {
	return ErrTokenRejected
}

func (t StaticToken) BearerToken() string {
	return string(t)
}
