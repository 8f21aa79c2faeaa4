// Package store persists file and folder records as whole-collection JSON
// documents on disk.
//
// Each collection lives in a single canonical file (files.json,
// folders.json). Every mutation reads the full collection, applies the
// change in memory, serializes the result to a temporary sibling file, and
// atomically renames it over the canonical file, so a crash mid-write can
// never leave a truncated collection behind. Unparsable canonical content is
// treated as an empty collection and repaired in place; the corrupt payload
// is preserved in a .corrupt sibling first.
//
// Read-modify-write cycles are serialized per collection with a mutex, so
// concurrent mutations cannot silently lose each other's writes.
package store
