// Command respkv-server runs the in-memory key-value store.
//
// It serves RESP2/RESP3 clients on server.redis.addr (and optionally a TLS
// listener), plus an optional admin HTTP endpoint with Prometheus metrics.
// Configuration comes from defaults, an optional YAML file, an optional
// .env file and RESPKV_* environment variables, in that order.
package main
