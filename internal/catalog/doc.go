// Package catalog turns the vendor video CSV export into the JSON manifests
// the site reads.
//
// Every row is partitioned by Kind (full classes, category samples, move
// demos, marketing clips, samples) and class titles are mapped to a category
// slug by an ordered rule table over the first two pipe-delimited title
// segments. Output is deterministic for a given CSV.
package catalog
