// Package api provides the HTTP client for the feed server.
//
// # Overview
//
// This package is the only component that speaks HTTP. It attaches
// credentials, classifies failures into the categories the UI reacts to,
// and decodes the server's pagination envelope into typed payloads.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the server's API schema
//   - errors.go: The error taxonomy and classification helpers
//
// # Client Usage
//
// Create a client using the server address from configuration and a token
// source backed by the persisted session:
//
//	client, err := api.NewClient("127.0.0.1:8000", tokens.Current)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	feed, err := client.Posts(ctx, 1, 20)
//	if err != nil {
//		log.Printf("feed fetch failed: %v", err)
//	}
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: perch/0.1 headers
//   - Carry a fresh X-Request-ID (UUID) for server-side correlation
//   - Attach Authorization: Bearer <token> when a token is available
//   - Have a 5-second timeout (configurable via http.Client)
//
// # Error Handling
//
// Every failure surfaces as *Error with a Kind:
//
//   - KindTransport: the request never reached the server
//   - KindUnauthorized: 401, the single trigger for forced logout
//   - KindValidation: field-keyed messages for form display
//   - KindNotFound, KindServer: surfaced generically
//
// Callers match with IsUnauthorized, AsValidation, and IsTransport rather
// than inspecting status codes themselves.
package api
