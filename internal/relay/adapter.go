package relay

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxBodyBytes = 1 << 20

// Request is the transport-neutral view of an inbound call.
type Request struct {
	Method string
	Body   []byte
}

// Adapter connects a hosting target to Handler.Handle.
type Adapter interface {
	ReadRequest() (Request, error)
	WriteResponse(status int, header http.Header, body []byte) error
}

// HTTPAdapter serves the relay over net/http.
type HTTPAdapter struct {
	w http.ResponseWriter
	r *http.Request
}

func NewHTTPAdapter(w http.ResponseWriter, r *http.Request) *HTTPAdapter {
	return &HTTPAdapter{w: w, r: r}
}

func (a *HTTPAdapter) ReadRequest() (Request, error) {
	req := Request{Method: a.r.Method}
	if a.r.Body == nil {
		return req, nil
	}
	defer a.r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(a.w, a.r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return req, fmt.Errorf("read body: %w", err)
	}
	req.Body = body
	return req, nil
}

func (a *HTTPAdapter) WriteResponse(status int, header http.Header, body []byte) error {
	dst := a.w.Header()
	for key, values := range header {
		for _, value := range values {
			dst.Add(key, value)
		}
	}
	a.w.WriteHeader(status)
	if len(body) == 0 {
		return nil
	}
	_, err := a.w.Write(body)
	return err
}
