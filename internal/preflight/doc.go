// Package preflight provides readiness checks for the paths, credentials and
// external binaries sitekit depends on.
//
// The CLI "sitekit status" command runs every check and renders the results;
// the thumbnails command reuses the face cascade check to decide whether the
// face stage is available. Checks never fail the process on their own.
package preflight
