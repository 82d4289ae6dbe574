// Package tracker makes the server's state tree transparently observable.
//
// A Proxy-based interposer is the conceptual model: every container value
// read from the state lazily wraps in a transparent object that carries the
// path by which it was reached, so a write anywhere in the tree emits
// exactly one patch at its effective path. Go has no Proxy trap, so this
// package hands out an explicit Cursor value that carries its path and
// offers Child/Index/Get navigation plus Set/Delete/Push/Pop/Splice
// writes. Cursor has no Subscribe; subscriptions live on the client side,
// in internal/mirror.
//
// State plays the role of the interposer's root; Cursor plays the role of
// the lazily-constructed per-path interposer. Cursor is cheap and stateless
// beyond its path — no caching is required, since freshly-constructed
// interposers are cheap.
package tracker
