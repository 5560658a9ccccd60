package fleet

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// TokenProvider supplies the anti-forgery token attached to transition
// commands.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

var ErrNoToken = errors.New("no anti-forgery token available")

// CookieToken reads the token from a session cookie the fleet API set on a
// previous response.
type CookieToken struct {
	Jar  http.CookieJar
	URL  *url.URL
	Name string
}

func (t CookieToken) Token(context.Context) (string, error) {
	if t.Jar == nil || t.URL == nil {
		return "", ErrNoToken
	}
	for _, cookie := range t.Jar.Cookies(t.URL) {
		if cookie.Name == t.Name && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", ErrNoToken
}

// FirstToken tries providers in order and returns the first token found.
type FirstToken []TokenProvider

func (p FirstToken) Token(ctx context.Context) (string, error) {
	for _, provider := range p {
		if provider == nil {
			continue
		}
		token, err := provider.Token(ctx)
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrNoToken
}
