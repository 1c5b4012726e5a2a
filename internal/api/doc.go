// Package api provides the HTTP client for the cellar server's REST API.
//
// This package is the transport layer beneath the share wizard and the CLI
// commands. It performs structured JSON request/response exchanges, converts
// non-2xx responses into typed errors carrying a single human-readable
// message, and retries transient failures on read requests with exponential
// backoff. Write requests, in particular the share submission, are never
// retried, because sharing is not idempotent.
//
// # Error Normalization
//
// Failed responses are reduced to one message via ExtractMessage, preferring
// in order: a plain string body, a "message" field, a "title" field, the
// first entry of an "errors" map whose value is a non-empty list, and
// finally the HTTP status line. Callers surface Message(err) directly to
// the user.
//
// # Usage Example
//
//	client := api.NewClient("https://cellar.example.com", token)
//
//	bottles, err := client.ListUnsharedBottles(ctx)
//	if err != nil {
//	    fmt.Println(api.Message(err))
//	    return
//	}
//
//	resp, err := client.ShareBottles(ctx, api.ShareRequest{
//	    ExistingBottleIDs: []string{"b-1", "b-2"},
//	    RecipientUserIDs:  []string{"u-9"},
//	})
//
// # Event Stream
//
// OpenStream subscribes to the server's websocket event feed, which mirrors
// the wizard's completion/cancellation signals server-side so other clients
// can refresh their views.
//
// # Thread Safety
//
// Client instances are safe for concurrent use. A Stream must only be read
// from one goroutine at a time.
package api
