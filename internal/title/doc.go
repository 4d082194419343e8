// Package title models one catalog entry: a storage-bearing title on the
// device or one of the fixed shared-data buckets.
//
// A Record is immutable once constructed. It is built either from live device
// metadata (FromDevice) or verbatim from a persisted cache entry
// (FromPersisted); both paths yield the same invariants. Text fields are
// bounded values with a fixed capacity (ProductCode, WideText) so they map
// one-to-one onto the cache layout, and the icon is a shared immutable handle
// that any number of readers may hold without copying.
package title
