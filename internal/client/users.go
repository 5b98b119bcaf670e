package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"smarttodo-cli/internal/model"
)

// ErrEmptyQuery is returned by SearchUsers for a blank query; the backend
// rejects those with 400.
var ErrEmptyQuery = errors.New("empty search query")

type searchUsersResponse struct {
	Users []model.User `json:"users"`
}

// SearchUsers looks up other users whose username or nickname contains q
// (case-insensitive). The current user is never included.
func (c *Client) SearchUsers(ctx context.Context, q string) ([]model.User, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	op := fmt.Sprintf("search users %q", q)
	return retryGet(ctx, c, func() ([]model.User, error) {
		var out searchUsersResponse
		if err := c.getJSON(ctx, op, "/api/search_users", url.Values{"q": {q}}, &out); err != nil {
			return nil, err
		}
		if out.Users == nil {
			out.Users = []model.User{}
		}
		return out.Users, nil
	})
}
