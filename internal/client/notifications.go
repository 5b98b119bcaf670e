package client

import (
	"context"
	"fmt"

	"smarttodo-cli/internal/model"
)

// MarkNotificationRead flags one notification as read on the backend.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.postExpectSuccess(ctx, fmt.Sprintf("mark notification %d read", id),
		fmt.Sprintf("/notifications/%d/read", id), nil)
}

// Notifications lists the current user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	return retryGet(ctx, c, func() ([]model.Notification, error) {
		var out []model.Notification
		if err := c.getJSON(ctx, "list notifications", "/api/notifications", nil, &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []model.Notification{}
		}
		return out, nil
	})
}
