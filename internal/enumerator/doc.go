// Package enumerator walks the device's title pools and turns every title
// with save data into a catalog record, then appends the fixed shared-data
// buckets.
//
// Pools are visited in order. The installed-application pool is filtered to
// application and demo ids before any probing; the system pool is taken as
// is. A pool whose count or listing fails aborts the walk with a PoolError.
package enumerator
