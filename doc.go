// Package yuzu synchronizes a JSON-shaped state tree from one authoritative
// server to any number of subscribed clients in near-real time.
//
// A Server holds the authoritative tree. Every mutation performed through
// its tracker.Cursor API is translated into a path-addressed patch and
// broadcast to every connected Client, optionally batched within a
// configurable delay window. A Client keeps a local mirror of the tree,
// kept in sync by applying incoming patches, and lets application code
// subscribe to changes at any path.
//
// The transport carrying patches between Server and Client is pluggable:
// the default is a WebSocket hub-and-spoke (internal/transport/ws), a
// NATS-backed external transport is provided out of the box
// (internal/transport/nats), and a host application can supply any other
// carrier by implementing the callback contract in
// internal/transport/external.go.
package yuzu
