// Package watcher keeps a loaded catalog in step with removable media.
//
// A Watcher holds a single-instance lock, polls the catalog's hot-swap check
// on a fixed interval and, when enabled, also listens for udev block-device
// uevents over netlink so insertions are noticed without waiting for the next
// tick. Failure to open the netlink socket is logged and polling continues.
package watcher
