// Package dirshare contains the domain types and pure request-resolution
// logic for the dirshare file server: the route registry, the sandboxed
// path resolver, single-range byte-range parsing, and MIME/media
// classification.
//
// The package has no HTTP or rendering dependencies. The http subpackage
// consumes it to turn requests into directory listings, file deliveries,
// and uploads; the session subpackage supplies the login/display state the
// access gate and listing generator read.
package dirshare
