// Package handlers implements the HTTP surface of the filebox server:
// file listing, upload, folder assignment, thumbnail/raw/stream/download
// delivery, folder management, usage stats, and health/version endpoints.
//
// Handlers map store and streaming sentinel errors onto the response
// vocabulary: 404 for unknown records, 410 for records whose on-disk bytes
// are gone, 400 for malformed input, 416 for out-of-bounds ranges. Error
// bodies are always {"error": "..."}.
package handlers
