// Package repositories implements SQLite persistence for client state.
//
// The client keeps one piece of persisted state, the favorites list, stored
// the way a browser would keep it in local storage: a single key holding a
// serialized array, read at startup and overwritten on every change.
//
// Key Implementations:
//   - [KVRepository] : string key-value store over the kv_store table
//   - [FavoritesRepository] : JSON array of favorites kept under one key of a [KVStore]
package repositories
