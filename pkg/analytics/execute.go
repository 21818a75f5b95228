package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dreams-labs/datacore/pkg/core"
)

type submitPayload struct {
	ExecutionID string              `json:"execution_id"`
	State       core.ExecutionState `json:"state"`
}

type statusPayload struct {
	ExecutionID string              `json:"execution_id"`
	QueryID     int                 `json:"query_id"`
	State       core.ExecutionState `json:"state"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type resultsPayload struct {
	ExecutionID string              `json:"execution_id"`
	State       core.ExecutionState `json:"state"`
	Result      struct {
		Rows     []core.Row `json:"rows"`
		Metadata struct {
			ColumnNames []string `json:"column_names"`
			ColumnTypes []string `json:"column_types"`
		} `json:"metadata"`
	} `json:"result"`
}

// Submit triggers an execution of the saved query identified by queryID
// with the given parameter bindings and returns its execution handle.
func (c *Client) Submit(ctx context.Context, queryID int, params map[string]any) (*core.Execution, error) {
	if queryID <= 0 {
		return nil, core.E(core.KindValidation, "analytics.submit", "",
			fmt.Errorf("query ID must be positive, got %d", queryID))
	}
	if params == nil {
		params = map[string]any{}
	}

	body := map[string]any{
		"query_parameters": params,
		"performance":      c.cfg.Engine,
	}

	var payload submitPayload
	path := fmt.Sprintf("/api/v1/query/%d/execute", queryID)
	if err := c.doJSON(ctx, http.MethodPost, path, "analytics.submit", fmt.Sprint(queryID), body, &payload); err != nil {
		return nil, err
	}
	if payload.ExecutionID == "" {
		return nil, core.E(core.KindRemoteQuery, "analytics.submit", fmt.Sprint(queryID),
			fmt.Errorf("remote accepted the query but returned no execution ID"))
	}

	c.logger.Debug("submitted analytics query",
		"query_id", queryID,
		"execution_id", payload.ExecutionID,
		"engine", c.cfg.Engine)

	return &core.Execution{
		ID:          payload.ExecutionID,
		QueryID:     queryID,
		State:       payload.State,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// Status fetches the current state of an execution.
func (c *Client) Status(ctx context.Context, executionID string) (*core.Execution, error) {
	payload, err := c.fetchStatus(ctx, executionID)
	if err != nil {
		return nil, err
	}
	return &core.Execution{
		ID:      payload.ExecutionID,
		QueryID: payload.QueryID,
		State:   payload.State,
	}, nil
}

func (c *Client) fetchStatus(ctx context.Context, executionID string) (*statusPayload, error) {
	if executionID == "" {
		return nil, core.E(core.KindValidation, "analytics.status", "",
			fmt.Errorf("execution ID is required"))
	}

	var payload statusPayload
	path := fmt.Sprintf("/api/v1/execution/%s/status", executionID)
	if err := c.doJSON(ctx, http.MethodGet, path, "analytics.status", executionID, nil, &payload); err != nil {
		return nil, err
	}
	if payload.ExecutionID == "" {
		payload.ExecutionID = executionID
	}
	return &payload, nil
}

// Results fetches the result set of a completed execution.
func (c *Client) Results(ctx context.Context, executionID string) (*core.QueryResult, error) {
	if executionID == "" {
		return nil, core.E(core.KindValidation, "analytics.results", "",
			fmt.Errorf("execution ID is required"))
	}

	var payload resultsPayload
	path := fmt.Sprintf("/api/v1/execution/%s/results", executionID)
	if err := c.doJSON(ctx, http.MethodGet, path, "analytics.results", executionID, nil, &payload); err != nil {
		return nil, err
	}

	schema := make(core.Schema, len(payload.Result.Metadata.ColumnNames))
	for i, name := range payload.Result.Metadata.ColumnNames {
		colType := "TEXT"
		if i < len(payload.Result.Metadata.ColumnTypes) && payload.Result.Metadata.ColumnTypes[i] != "" {
			colType = payload.Result.Metadata.ColumnTypes[i]
		}
		schema[i] = core.Column{Name: name, Type: colType}
	}

	rows := payload.Result.Rows
	if rows == nil {
		rows = []core.Row{}
	}

	return &core.QueryResult{Schema: schema, Rows: rows}, nil
}

// Execute runs a saved query end to end: submit, poll the execution
// until it reaches a terminal state, then fetch the results. Polling
// waits at least PollFloor between status checks and backs off
// exponentially up to PollCap. If the configured timeout elapses first,
// the returned timeout error carries the execution ID so the caller can
// resume polling the still-running execution.
func (c *Client) Execute(ctx context.Context, queryID int, params map[string]any) (*core.QueryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	exec, err := c.Submit(ctx, queryID, params)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.PollFloor
	bo.MaxInterval = c.cfg.PollCap
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()

	for {
		payload, err := c.fetchStatus(ctx, exec.ID)
		if err != nil {
			if core.IsTimeout(err) {
				return nil, core.E(core.KindTimeout, "analytics.execute", exec.ID, err)
			}
			return nil, err
		}

		switch payload.State {
		case core.StateCompleted:
			c.logger.Debug("analytics execution completed", "execution_id", exec.ID)
			return c.Results(ctx, exec.ID)
		case core.StateFailed:
			msg := "remote execution failed"
			if payload.Error != nil && payload.Error.Message != "" {
				msg = payload.Error.Message
			}
			return nil, core.E(core.KindRemoteQuery, "analytics.execute", exec.ID, errors.New(msg))
		}

		wait := bo.NextBackOff()
		c.logger.Debug("analytics execution pending",
			"execution_id", exec.ID,
			"state", payload.State,
			"next_poll", wait)

		select {
		case <-ctx.Done():
			return nil, core.E(core.KindTimeout, "analytics.execute", exec.ID, ctx.Err())
		case <-time.After(wait):
		}
	}
}
