package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ReplyTransport opens the raw byte stream of one reply.
// The caller closes the returned body.
type ReplyTransport interface {
	Open(ctx context.Context, req ChatRequest) (io.ReadCloser, error)
}

// HTTPTransport POSTs the chat request as JSON and hands back the streamed body.
type HTTPTransport struct {
	endpoint string
	client   *resty.Client
}

// NewHTTPTransport creates a transport for endpoint. headerTimeout bounds the
// wait for response headers only; a slow body is never cut off.
func NewHTTPTransport(endpoint string, headerTimeout time.Duration) *HTTPTransport {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "text/plain").
		SetHeader("Accept-Encoding", "identity").
		SetTransport(&http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: headerTimeout,
			IdleConnTimeout:       90 * time.Second,
		})
	return &HTTPTransport{endpoint: endpoint, client: client}
}

// Endpoint returns the URL requests are sent to.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Open sends req and returns the body once a 2xx status arrived.
func (t *HTTPTransport) Open(ctx context.Context, req ChatRequest) (io.ReadCloser, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(req).
		SetDoNotParseResponse(true).
		Post(t.endpoint)
	if err != nil {
		return nil, asDeliveryFailure(requestStage(ctx), err)
	}

	body := resp.RawBody()
	if !resp.IsSuccess() {
		if body != nil {
			body.Close()
		}
		return nil, &ReplyDeliveryFailure{
			Stage:      StageStatus,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("reply service answered %s", resp.Status()),
		}
	}
	if body == nil {
		return nil, &ReplyDeliveryFailure{Stage: StageTransport, Err: errors.New("reply service returned no body")}
	}
	return body, nil
}

func requestStage(ctx context.Context) DeliveryStage {
	if ctx.Err() != nil {
		return StageCanceled
	}
	return StageRequest
}
