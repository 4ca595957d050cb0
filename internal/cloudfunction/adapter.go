package cloudfunction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/ugcgo/ugcgo-backend/internal/bootstrap"
)

// CloudFunctionRequest is the API Gateway event
type CloudFunctionRequest struct {
	HTTPMethod        string            `json:"httpMethod"`
	Headers           map[string]string `json:"headers"`
	Path              string            `json:"path"`
	QueryStringParams map[string]string `json:"queryStringParameters"`
	Body              string            `json:"body"`
	IsBase64Encoded   bool              `json:"isBase64Encoded"`
}

// CloudFunctionResponse is the reply expected by API Gateway
type CloudFunctionResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

var (
	app      *bootstrap.App
	initOnce sync.Once
	initErr  error
)

// Handler is the Cloud Function entry point. The application is built on
// the first (cold start) invocation and reused afterwards.
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	initOnce.Do(func() {
		app, initErr = bootstrap.Initialize(ctx)
		if initErr == nil {
			slog.Info("Cloud Function initialized successfully")
		}
	})
	if initErr != nil {
		return respondError(http.StatusInternalServerError, "Failed to initialize: "+initErr.Error())
	}

	return Serve(ctx, app.Handler, request)
}

// Serve runs one API Gateway event through an HTTP handler
func Serve(ctx context.Context, handler http.Handler, request []byte) ([]byte, error) {
	var cfReq CloudFunctionRequest
	if err := json.Unmarshal(request, &cfReq); err != nil {
		slog.Error("Failed to parse request", "error", err)
		return respondError(http.StatusBadRequest, "Invalid request format")
	}

	httpReq, err := buildHTTPRequest(ctx, &cfReq)
	if err != nil {
		slog.Error("Failed to build HTTP request", "error", err)
		return respondError(http.StatusBadRequest, "Failed to build request")
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httpReq)

	return buildCloudFunctionResponse(rr)
}

func buildHTTPRequest(ctx context.Context, cfReq *CloudFunctionRequest) (*http.Request, error) {
	var bodyReader io.Reader
	if cfReq.Body != "" {
		body := []byte(cfReq.Body)
		if cfReq.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(cfReq.Body)
			if err != nil {
				return nil, fmt.Errorf("decode body: %w", err)
			}
			body = decoded
		}
		bodyReader = bytes.NewReader(body)
	}

	path := cfReq.Path
	if path == "" {
		path = "/"
	}

	req, err := http.NewRequestWithContext(ctx, cfReq.HTTPMethod, path, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range cfReq.Headers {
		req.Header.Set(key, value)
	}

	if len(cfReq.QueryStringParams) > 0 {
		q := req.URL.Query()
		for key, value := range cfReq.QueryStringParams {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

func buildCloudFunctionResponse(rr *httptest.ResponseRecorder) ([]byte, error) {
	headers := make(map[string]string)
	for key, values := range rr.Header() {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	return json.Marshal(CloudFunctionResponse{
		StatusCode: rr.Code,
		Headers:    headers,
		Body:       rr.Body.String(),
	})
}

func respondError(statusCode int, message string) ([]byte, error) {
	body, _ := json.Marshal(map[string]string{"detail": message})

	return json.Marshal(CloudFunctionResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	})
}
