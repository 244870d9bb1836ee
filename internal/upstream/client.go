package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the single outbound entry to the PetLove backend. One configured
// resty client, bearer injected per call.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func New(baseURL string, timeout time.Duration, l *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "PetLove-Admin-Gateway/1.0").
		SetHeader("Accept", "application/json")
	return &Client{http: rc, log: l}
}

// Result carries whatever the backend answered. Status is the HTTP status,
// Message is the envelope message when one was present, Data the payload with
// the envelope already stripped.
type Result struct {
	Status  int
	Success bool
	Message string
	Data    json.RawMessage
}

func (r *Result) OK() bool { return r.Success }

// Do performs one request. A returned error means the request never completed
// (transport failure or context cancellation); backend-level rejection is
// reported through Result.
func (c *Client) Do(ctx context.Context, method, path, bearer string, body any) (*Result, error) {
	req := c.http.R().SetContext(ctx)
	if bearer != "" {
		req.SetAuthToken(bearer)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	res := parseBody(resp.Body())
	res.Status = resp.StatusCode()
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		res.Success = false
	}
	return res, nil
}

func (c *Client) Get(ctx context.Context, path, bearer string) (*Result, error) {
	return c.Do(ctx, http.MethodGet, path, bearer, nil)
}

func (c *Client) Post(ctx context.Context, path, bearer string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPost, path, bearer, body)
}

func (c *Client) Put(ctx context.Context, path, bearer string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPut, path, bearer, body)
}

func (c *Client) Patch(ctx context.Context, path, bearer string, body any) (*Result, error) {
	return c.Do(ctx, http.MethodPatch, path, bearer, body)
}

func (c *Client) Delete(ctx context.Context, path, bearer string) (*Result, error) {
	return c.Do(ctx, http.MethodDelete, path, bearer, nil)
}
