// Package service is the application layer between the transports (HTTP,
// MCP, CLI) and the pure fusion core.
//
// A Service holds the current fusion defaults, merges per-request
// overrides over them and caches one validated *fusion.Engine per config
// fingerprint. Batches fan out over a bounded errgroup and keep request
// order. Every operation is traced and counted.
package service
