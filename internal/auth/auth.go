package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

var ErrNoCookie = errors.New("login response set no cookie")

const loginTimeout = 15 * time.Second

// Login posts the bot's credentials to loginURL and returns the session
// cookie as a Cookie header value, ready for the websocket handshake.
// Each call uses a fresh cookie jar so bots never share a session.
func Login(ctx context.Context, loginURL, username, password string) (string, error) {
	u, err := url.Parse(loginURL)
	if err != nil {
		return "", fmt.Errorf("login url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Jar: jar, Timeout: loginTimeout}

	form := url.Values{
		"username": {username},
		"password": {password},
		"version":  {"bot"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login %s: %w", username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("login %s: %s: %s", username, resp.Status, strings.TrimSpace(string(body)))
	}

	cookies := jar.Cookies(u)
	if len(cookies) == 0 {
		return "", ErrNoCookie
	}
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; "), nil
}
