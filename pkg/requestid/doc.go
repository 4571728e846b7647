// Package requestid correlates log records with the HTTP request that
// produced them.
//
// Middleware stores an id in the request context and in the X-Request-ID
// response header; FromContext reads it back and LoggerExtractor plugs it into
// pkg/logger so every record logged with a request context carries
// "request_id".
package requestid
