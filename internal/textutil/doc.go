// Package textutil sanitizes display text for filesystem use.
//
// Title names come from device metadata and may contain characters that are
// not valid in a path component. SanitizePathComponent derives the directory
// name used for a title's backups.
package textutil
