// Package task tracks the progress of one long-running catalog operation.
//
// A Task receives a status label and the title id being worked on, and is
// finished exactly once. Status changes are sampled into debug logs so a
// full enumeration does not flood the log with one line per title.
package task
