// Package remote calls the solar telemetry function behind the target
// audience URL.
package remote

import (
	"bitbucket.org/sotavant/solar-skill/internal/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"net"
	"time"
)

//go:generate mockgen -destination=mock/caller.go -package=mock . Caller

const (
	ActionGetSolarData = "GET_SOLAR_DATA"

	DataCurrent = "current"
	DataDaily   = "daily"
	DataStatus  = "status"
	DataSummary = "summary"
)

// Payload tells the function which data is wanted.
type Payload struct {
	Action   string `json:"action,omitempty"`
	DataType string `json:"dataType"`
}

// Result is the decoded JSON object returned by the function. A JSON null
// body decodes to a nil Result.
type Result map[string]any

// Caller performs one authenticated call. Failures are returned as *Error.
type Caller interface {
	Call(ctx context.Context, targetAudience, token string, payload Payload, log *zap.Logger) (Result, error)
}

type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindStatus
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is a failed call. StatusCode and Body are set for KindStatus and
// KindParse.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("remote call failed with status %d", e.StatusCode)
	case KindParse:
		return fmt.Sprintf("remote response is not valid JSON: %v", e.Err)
	case KindTimeout:
		return fmt.Sprintf("remote call timed out: %v", e.Err)
	default:
		return fmt.Sprintf("network error calling remote: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPCaller posts the payload as JSON with a bearer token.
type HTTPCaller struct {
	client *resty.Client
}

func NewHTTPCaller(timeout time.Duration) *HTTPCaller {
	return NewHTTPCallerWithClient(resty.New().SetTimeout(timeout))
}

func NewHTTPCallerWithClient(c *resty.Client) *HTTPCaller {
	return &HTTPCaller{client: c}
}

func (c *HTTPCaller) Call(ctx context.Context, targetAudience, token string, payload Payload, log *zap.Logger) (Result, error) {
	log.Info("calling remote function", zap.String("target", targetAudience), zap.String("dataType", payload.DataType))

	start := time.Now()
	res, err := c.call(ctx, targetAudience, token, payload, log)
	metrics.UpstreamLatency.WithLabelValues(payload.DataType).Observe(time.Since(start).Seconds())

	outcome := "ok"
	var rerr *Error
	if errors.As(err, &rerr) {
		outcome = rerr.Kind.String()
	}
	metrics.UpstreamCallsTotal.WithLabelValues(payload.DataType, outcome).Inc()

	return res, err
}

func (c *HTTPCaller) call(ctx context.Context, targetAudience, token string, payload Payload, log *zap.Logger) (Result, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(targetAudience)
	if err != nil {
		kind := KindNetwork
		if isTimeout(err) {
			kind = KindTimeout
		}
		log.Error("error calling remote function", zap.Stringer("kind", kind), zap.Error(err))
		return nil, &Error{Kind: kind, Err: err}
	}

	log.Info("received response from remote function", zap.Int("status", resp.StatusCode()))

	body := resp.Body()
	if resp.IsError() {
		log.Error("remote function call failed with non-OK status",
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", body),
		)
		return nil, &Error{Kind: KindStatus, StatusCode: resp.StatusCode(), Body: string(body)}
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		log.Error("failed to parse remote function response", zap.ByteString("responseBody", body), zap.Error(err))
		return nil, &Error{Kind: KindParse, StatusCode: resp.StatusCode(), Body: string(body), Err: err}
	}

	return res, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
