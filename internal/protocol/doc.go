// Package protocol defines the wire schema shared by the server and client
// session layers: the four JSON message shapes described by the
// complete/patch/patch-batch synchronization protocol, the path and patch
// types that address locations within a synchronized state tree, and the
// Absent sentinel used to express keyed-entry deletion.
//
// Messages are encoded with goccy/go-json rather than the standard library
// encoding/json, a faster drop-in encoder.
package protocol
