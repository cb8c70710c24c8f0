// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package client talks to the MaxScale REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/openchoreo/maxctrl/internal/alter"
	"github.com/openchoreo/maxctrl/internal/faults"
	"github.com/openchoreo/maxctrl/internal/logging"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultMediaType = "application/json"
	maxResponseBody  = 4 << 20

	// RequestIDHeader carries a per-request identifier for server-side log correlation.
	RequestIDHeader = "X-Request-ID"
)

var _ alter.Client = (*Client)(nil)

// Options configures a Client.
type Options struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client issues GET and PATCH requests for REST resources.
type Client struct {
	baseURL  *url.URL
	user     string
	password string
	http     *http.Client
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	baseURL, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:  baseURL,
		user:     opts.User,
		password: opts.Password,
		http:     httpClient,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, faults.Validation("base URL is required", nil)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, faults.Validation("base URL is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, faults.Validation("base URL must use http or https: "+trimmed, nil)
	}
	if parsed.Host == "" {
		return nil, faults.Validation("base URL has no host: "+trimmed, nil)
	}
	return parsed, nil
}

// Get fetches the JSON document at resourcePath.
func (c *Client) Get(ctx context.Context, resourcePath string) (map[string]any, error) {
	body, err := c.do(ctx, http.MethodGet, resourcePath, nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument(body)
}

// Patch sends doc to resourcePath as the body of a PATCH request.
func (c *Client) Patch(ctx context.Context, resourcePath string, doc map[string]any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return faults.Validation("failed to encode request body", err)
	}
	_, err = c.do(ctx, http.MethodPatch, resourcePath, payload)
	return err
}

// URL returns the absolute URL for resourcePath.
func (c *Client) URL(resourcePath string) string {
	segments := strings.Split(strings.Trim(resourcePath, "/"), "/")
	return c.baseURL.JoinPath(segments...).String()
}

func (c *Client) do(ctx context.Context, method, resourcePath string, payload []byte) ([]byte, error) {
	if strings.Trim(resourcePath, "/") == "" {
		return nil, faults.Validation("resource path is required", nil)
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	target := c.URL(resourcePath)
	request, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, faults.Internal("failed to create request", err)
	}
	requestID := uuid.NewString()
	request.Header.Set("Accept", defaultMediaType)
	request.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		request.Header.Set("Content-Type", defaultMediaType)
	}
	if c.user != "" || c.password != "" {
		request.SetBasicAuth(c.user, c.password)
	}

	logger := logr.FromContextOrDiscard(ctx).WithValues("method", method, "url", target, "requestID", requestID)
	logger.V(logging.LevelRequest).Info("Sending request")
	started := time.Now()

	response, err := c.http.Do(request)
	if err != nil {
		return nil, faults.Transport(method+" "+target+" failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBody))
	if err != nil {
		return nil, faults.Transport("failed to read response body", err)
	}
	logger.V(logging.LevelRequest).Info("Received response", "status", response.StatusCode, "duration", time.Since(started).String())

	if response.StatusCode >= http.StatusBadRequest {
		return nil, classifyStatus(method, target, response.StatusCode, body)
	}
	return body, nil
}

func decodeDocument(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var doc map[string]any
	if err := decoder.Decode(&doc); err != nil {
		return nil, faults.Validation("response body is not a JSON object", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
