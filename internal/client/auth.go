package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Login starts a session. identifier is a username or email address.
// On success the session cookie is held in the client's jar.
func (c *Client) Login(ctx context.Context, identifier, password string) error {
	const op = "login"
	form := url.Values{
		"identifier": {identifier},
		"password":   {password},
	}
	resp, err := c.do(ctx, op, http.MethodPost, "/login", nil, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if isRedirect(resp.StatusCode) {
		// A successful login redirects away; a redirect back to /login is
		// the unverified-account flow.
		if _, err := checkRedirect(op, resp); err != nil {
			return fmt.Errorf("%s: %w", op, ErrBadCredentials)
		}
		return nil
	}
	if resp.StatusCode == http.StatusOK {
		// The form is re-rendered with a flash message.
		return fmt.Errorf("%s: %w", op, ErrBadCredentials)
	}
	return netErr(op, resp.StatusCode, errors.New(readSnippet(resp.Body)))
}

// Logout ends the backend session and drops the local cookies.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, "logout", http.MethodGet, "/logout", nil, nil)
	if err == nil {
		resp.Body.Close()
	}
	for _, ck := range c.jar.Cookies(c.baseURL) {
		c.jar.SetCookies(c.baseURL, []*http.Cookie{{Name: ck.Name, Value: "", Path: "/", MaxAge: -1}})
	}
	return err
}
