// Package catalog owns the ordered in-memory list of titles with save data.
//
// Load fills the catalog once per process, either from the cache file (warm
// path) or by enumerating the device, sorting and writing the cache (cold
// path). After that only HotSwapCheck mutates it, and only its leading
// removable-card slot. Readers may query the catalog at any time, including
// while a cold build is still appending records.
package catalog
