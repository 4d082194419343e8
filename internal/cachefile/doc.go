// Package cachefile persists the title catalog between runs.
//
// The file is a 7-byte little-endian header (magic, record count, revision)
// followed by fixed-width records, one per catalog entry in catalog order.
// A missing file, a foreign magic or a different revision all mean "no
// usable cache" and send the caller down the cold enumeration path; a file
// that ends before its declared record count is an error.
//
// Writes go through an atomic temp-file rename so readers only ever see the
// previous or the new file, and a sidecar flock serializes savekeeper
// processes sharing one cache.
package cachefile
