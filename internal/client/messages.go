package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"smarttodo-cli/internal/model"
)

// SendMessage posts a direct message. The backend answers a form post with a
// redirect back to the conversation; anything but a redirect to the login
// page counts as delivered.
func (c *Client) SendMessage(ctx context.Context, msg model.Message) error {
	op := fmt.Sprintf("send message to %d", msg.ReceiverID)
	form := url.Values{
		"receiver_id": {strconv.Itoa(msg.ReceiverID)},
		"content":     {msg.Content},
	}
	resp, err := c.do(ctx, op, http.MethodPost, "/messages/send", nil, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case isRedirect(resp.StatusCode):
		_, err := checkRedirect(op, resp)
		return err
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	default:
		return netErr(op, resp.StatusCode, errors.New(readSnippet(resp.Body)))
	}
}
