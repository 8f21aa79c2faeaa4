// Package media classifies uploaded files and generates still-image
// thumbnails for them.
//
// Classification is a pure function over the client-reported MIME type with
// an extension fallback. Thumbnail generation shells out to FFmpeg for video
// frame extraction and decodes images directly; either way the result is
// scaled to a fixed width and written as <record-id>.jpg, so a thumbnail's
// location is always derivable from its record.
package media
