// Package streaming serves file bytes over HTTP with partial-content support,
// so media players can seek.
//
// # Protocol
//
// Given an optional client range header of the form "bytes=<start>-<end>"
// (end optional):
//
//   - No range header: the whole file is sent with status 200 and
//     Content-Length set to the file size.
//   - Syntactically invalid range: 416 Range Not Satisfiable, no body.
//   - Syntactically valid but out-of-bounds range (start >= size, end >= size,
//     or end < start): 416 with "Content-Range: bytes */<size>" so the client
//     learns the valid extent.
//   - Valid range: 206 Partial Content with "Content-Range: bytes
//     <start>-<end>/<size>", "Accept-Ranges: bytes", and a body of exactly
//     end-start+1 bytes.
//
// Bodies are copied in fixed-size chunks with a flush after each one, never
// buffering the whole file, and the copy stops early when the client
// disconnects.
//
// The engine is read-only with respect to metadata: it takes a path and an
// advisory MIME type and never looks at the record again.
package streaming
