// Package shutdown coordinates graceful termination of respkv-server.
//
// Components register hooks with OnShutdown. Wait blocks until SIGINT,
// SIGTERM, Trigger or cancellation of its context, then runs the hooks in
// reverse registration order under a shared timeout.
package shutdown
