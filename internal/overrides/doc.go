// Package overrides persists the video id to thumbnail URL map consumed by
// the site and rebuilds it from picture listings.
//
// The file is a JSON object whose reserved "_meta" key describes the schema,
// generation date and entry count; every other key is a video id. Loading is
// lenient about entry values but refuses a file it cannot parse, so a run never
// overwrites mappings it failed to read. Writing is atomic and ordered by id
// so regenerated files diff cleanly.
package overrides
