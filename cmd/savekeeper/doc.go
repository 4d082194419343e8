// Package main hosts the savekeeper CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, wires the device registry,
// cache store, enumerator and catalog together, and exposes inspection
// commands over the result: scanning, listing titles, inspecting or clearing
// the cache, seeding the registry and watching for removable media.
//
// Keep this package lean: behavior belongs in the internal packages and is
// only surfaced here.
package main
