// Package http contains the chi HTTP handlers for the dashboard API. All
// error responses are RFC 7807 problem documents produced by the shared
// error handler.
package http
