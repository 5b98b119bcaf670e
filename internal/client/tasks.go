package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cenkalti/backoff/v5"

	"smarttodo-cli/internal/model"
)

// ToggleTask sets a task's completion flag.
func (c *Client) ToggleTask(ctx context.Context, id int, completed bool) error {
	op := fmt.Sprintf("toggle task %d", id)
	form := url.Values{"completed": {strconv.FormatBool(completed)}}
	return c.postExpectSuccess(ctx, op, fmt.Sprintf("/tasks/%d/toggle", id), form)
}

// TasksOnDate lists the tasks the backend schedules on date (YYYY-MM-DD), in
// backend order.
func (c *Client) TasksOnDate(ctx context.Context, date string) ([]model.Task, error) {
	op := "list tasks on " + date
	return retryGet(ctx, c, func() ([]model.Task, error) {
		var tasks []model.Task
		if err := c.getJSON(ctx, op, "/api/tasks", url.Values{"date": {date}}, &tasks); err != nil {
			return nil, err
		}
		if tasks == nil {
			tasks = []model.Task{}
		}
		return tasks, nil
	})
}

// retryGet repeats an idempotent fetch on transport errors, 5xx and 429.
func retryGet[T any](ctx context.Context, c *Client, fetch func() (T, error)) (T, error) {
	attempt := 0
	op := func() (T, error) {
		attempt++
		v, err := fetch()
		if err == nil {
			return v, nil
		}
		var ne *NetworkError
		if !errors.As(err, &ne) || !ne.Retryable() {
			return v, backoff.Permanent(err)
		}
		if attempt <= c.retries {
			c.log.Info("retrying request", "op", ne.Op, "attempt", attempt, "err", err)
		}
		return v, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.Reset()
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.retries+1)),
	)
}
