// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package middleware contains the HTTP middleware for the attendance service.
package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// webhookBodyContextKey is the context key for the raw webhook body.
type webhookBodyContextKey struct{}

// WebhookBodyCaptureMiddleware captures the raw request body and stores it in
// the request context so the webhook handler can validate the HMAC signature
// over the exact bytes Zoom signed. The body stays readable downstream.
func WebhookBodyCaptureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		ctx := context.WithValue(r.Context(), webhookBodyContextKey{}, body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WebhookBodyFromContext extracts the raw body captured by
// WebhookBodyCaptureMiddleware.
func WebhookBodyFromContext(ctx context.Context) ([]byte, bool) {
	body, ok := ctx.Value(webhookBodyContextKey{}).([]byte)
	return body, ok
}
