// Package vimeo provides the minimal Vimeo API client used by the thumbnail
// pipeline.
//
// It authenticates picture listing requests with a bearer token, returns the
// raw payload so callers can cache it byte-for-byte, and downloads thumbnail
// bytes from the CDN with a size cap. Non-2xx responses are classified with
// the services error markers so rejected tokens surface as setup errors.
package vimeo
