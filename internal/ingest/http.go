package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AngelCh415/sellerdash/internal/utils"
)

var (
	ErrEmptyURL     = errors.New("empty url")
	ErrUnauthorized = errors.New("unauthorized")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// StatusError is a non-2xx upstream answer. Message comes from the JSON
// `error` or `message` field when the body has one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.Code)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// retryable: 5xx y 429; el resto de 4xx no cambia al reintentar.
func (e *StatusError) retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

func statusError(resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(b))
	if json.Unmarshal(b, &body) == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Message != "":
			msg = body.Message
		}
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}

// getJSONWithRetry GETs url into dst. Transport errors, 5xx and 429 are retried
// with b; everything else fails on the first attempt.
func getJSONWithRetry(ctx context.Context, c HTTPClient, b utils.Backoff, req func(context.Context) (*http.Request, error), dst any) error {
	return b.Do(ctx, func(int) error {
		r, err := req(ctx)
		if err != nil {
			return utils.Permanent(err)
		}
		resp, err := c.Do(r)
		if err != nil {
			if ctx.Err() != nil {
				return utils.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			se := statusError(resp)
			if se.retryable() {
				return se
			}
			return utils.Permanent(se)
		}
		if err := decodeBody(resp.Body, dst); err != nil {
			return utils.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	})
}

// decodeBody treats an empty body as `{}`.
func decodeBody(r io.Reader, dst any) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(b))) == 0 || dst == nil {
		return nil
	}
	return json.Unmarshal(b, dst)
}
