// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/openchoreo/maxctrl/internal/faults"
)

const maxSummaryLength = 256

// apiErrors is the error envelope returned by the REST API.
type apiErrors struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

func classifyStatus(method, target string, status int, body []byte) error {
	message := fmt.Sprintf("%s %s returned %d %s", method, target, status, http.StatusText(status))
	if summary := summarizeBody(body); summary != "" {
		message += ": " + summary
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return faults.New(faults.AuthError, message, nil)
	case status == http.StatusNotFound:
		return faults.New(faults.NotFoundError, message, nil)
	case status == http.StatusConflict:
		return faults.New(faults.ConflictError, message, nil)
	case status < http.StatusInternalServerError:
		return faults.New(faults.ValidationError, message, nil)
	default:
		return faults.New(faults.TransportError, message, nil)
	}
}

// summarizeBody prefers the first error detail of an API error envelope and
// falls back to the raw body, truncated.
func summarizeBody(body []byte) string {
	var envelope apiErrors
	if err := json.Unmarshal(body, &envelope); err == nil {
		for _, e := range envelope.Errors {
			if detail := strings.TrimSpace(e.Detail); detail != "" {
				return truncate(detail)
			}
		}
	}
	return truncate(strings.Join(strings.Fields(string(body)), " "))
}

func truncate(s string) string {
	if len(s) <= maxSummaryLength {
		return s
	}
	return s[:maxSummaryLength] + "..."
}
