package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/rogerjeasy/letusconnect/core"
)

// Client calls the LetUsConnect REST API.
// Idempotent GETs are retried on transport errors and 5xx responses; other methods are sent once.
type Client struct {
	baseURL    string
	http       *rest.Client
	maxRetries uint64
	backoff    func() backoff.BackOff
	logger     core.Logger
}

var _ core.APIClient = (*Client)(nil)

func NewClient(conf *core.Config, logger core.Logger) *Client {
	retries := conf.Backend.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    conf.Backend.BaseURL,
		http:       &rest.Client{HTTPClient: &http.Client{Timeout: conf.Backend.Timeout}},
		maxRetries: uint64(retries),
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = conf.Backend.Timeout
			return b
		},
		logger: logger,
	}
}

// errorBody is the failure shape of the API: `{"error": "..."}`.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) request(req core.APIRequest) (rest.Request, error) {
	headers := map[string]string{"Accept": "application/json"}
	if req.Auth {
		headers["Authorization"] = "Bearer " + req.Token
	}
	r := rest.Request{
		Method:  rest.Method(req.Method),
		BaseURL: c.baseURL + req.Path,
		Headers: headers,
	}
	if req.Body != nil {
		body, err := json.Marshal(req.Body)
		if err != nil {
			return rest.Request{}, errors.Wrap(err, "encoding request body")
		}
		r.Body = body
		headers["Content-Type"] = "application/json"
	}
	return r, nil
}

// Do sends req and decodes a successful JSON response into out (when not nil).
// Every failure is a *core.RequestError; Message is set only when the response carries `{"error": ...}`.
func (c *Client) Do(ctx context.Context, req core.APIRequest, out interface{}) error {
	r, err := c.request(req)
	if err != nil {
		return core.NewRequestError(0, "", err)
	}

	var res *rest.Response
	send := func() error {
		var sErr error
		res, sErr = c.http.SendWithContext(ctx, r)
		switch {
		case sErr != nil:
			if ctx.Err() != nil {
				return backoff.Permanent(sErr)
			}
			return sErr
		case res.StatusCode >= http.StatusInternalServerError:
			return errors.Errorf("%s %s: status %d", req.Method, req.Path, res.StatusCode)
		}
		return nil
	}

	if req.Method == http.MethodGet && c.maxRetries > 0 {
		b := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
		err = backoff.RetryNotify(send, b, func(err error, wait time.Duration) {
			c.logger.Debug("retrying request", err, map[string]interface{}{"path": req.Path, "wait": wait.String()})
		})
	} else {
		err = send()
	}

	if res == nil {
		return core.NewRequestError(0, "", errors.Wrapf(err, "%s %s", req.Method, req.Path))
	}
	if res.StatusCode >= http.StatusBadRequest {
		return core.NewRequestError(res.StatusCode, errorMessage(res.Body), errors.Errorf("%s %s: status %d", req.Method, req.Path, res.StatusCode))
	}

	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Body), out); err != nil {
		return core.NewRequestError(res.StatusCode, "", errors.Wrap(err, "decoding response"))
	}
	return nil
}

// errorMessage extracts the backend's message from a failure body. It is empty when the shape is absent.
func errorMessage(body string) string {
	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}
