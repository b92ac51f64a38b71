// Package thumbnails lists, scores, and selects thumbnail candidates for
// hosted videos.
//
// The pipeline has three parts. A Lister turns the Vimeo picture listing
// (live or from the on-disk response cache) into Candidates, one per picture,
// using the widest rendition. A Scorer computes a desirability score from a
// base formula plus independently guarded image stages (brightness,
// sharpness, optional face detection). A Selector picks exactly one winner per
// video, falling back to the active/largest rule whenever scoring is disabled,
// unavailable, or inconclusive.
//
// Optional capabilities are decided once at startup and described by
// Capabilities; no stage probes for them per call.
package thumbnails
