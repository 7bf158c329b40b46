// Package client talks to the inspection API over HTTP/JSON.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI; HTTPClient is
// its implementation. Methods that need a user take the bearer token
// explicitly, so one HTTPClient can serve several accounts.
//
// # Error Handling
//
// Non-2xx responses become *APIError with the server's message. 401 and 404
// additionally match ErrUnauthorized and ErrNotFound with errors.Is;
// transport failures match ErrUnavailable.
package client
