// Package handler is the HTTP entry point after the router.
//
// Handlers bind and validate request payloads through the typed Handle
// pipeline and call the service layer.
package handler
