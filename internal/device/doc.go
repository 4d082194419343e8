// Package device defines the title-management service the catalog queries
// and the implementations savekeeper ships with.
//
// Service is the contract: per-media title counts and id lists, save-data
// probes, product codes, metadata blobs and the removable card slot. Registry
// implements it over a SQLite database that can be seeded from a TOML
// manifest; BlockCardProbe decorates any Service so card presence follows a
// real block device node.
package device
