// Package httpserver provides the admin HTTP endpoint of respkv-server.
//
// Routes:
//
//	GET /metrics   Prometheus exposition
//	GET /healthz   liveness plus the live key count, as JSON
//	GET /keys          live keys with their remaining TTL, as JSON
//	DELETE /keys/{key} remove one key
//	GET /version   build information, as JSON
//
// Every request passes through Recover, RequestID and AccessLog.
package httpserver
