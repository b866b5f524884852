// Package function runs the relay behind AWS API Gateway proxy events.
package function

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/witch-agent/vibe-coder/internal/relay"
)

// Adapter implements relay.Adapter for a single API Gateway event.
type Adapter struct {
	event    events.APIGatewayProxyRequest
	response events.APIGatewayProxyResponse
}

func NewAdapter(event events.APIGatewayProxyRequest) *Adapter {
	return &Adapter{event: event}
}

func (a *Adapter) ReadRequest() (relay.Request, error) {
	req := relay.Request{Method: a.event.HTTPMethod}
	if !a.event.IsBase64Encoded {
		req.Body = []byte(a.event.Body)
		return req, nil
	}
	body, err := base64.StdEncoding.DecodeString(a.event.Body)
	if err != nil {
		return req, fmt.Errorf("decode base64 body: %w", err)
	}
	req.Body = body
	return req, nil
}

func (a *Adapter) WriteResponse(status int, header http.Header, body []byte) error {
	a.response = events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(header)),
		MultiValueHeaders: make(map[string][]string, len(header)),
		Body:              string(body),
	}
	for key, values := range header {
		if len(values) == 0 {
			continue
		}
		a.response.Headers[key] = values[0]
		a.response.MultiValueHeaders[key] = append([]string(nil), values...)
	}
	return nil
}

// Response returns whatever the relay wrote.
func (a *Adapter) Response() events.APIGatewayProxyResponse {
	return a.response
}

// NewHandler returns a function suitable for lambda.Start.
func NewHandler(h *relay.Handler) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		adapter := NewAdapter(event)
		if err := h.Handle(ctx, adapter); err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return adapter.Response(), nil
	}
}
