// Package project defines the data model shared by the timeline engine:
// projects, aspect ratios, history records, and the opaque editable
// state snapshot.
//
// A State is an immutable JSON snapshot of everything the editor can
// change (clip list, durations, aspect ratio). The engine never looks
// inside a snapshot except through the read helpers here; updates
// produce a new State and leave the original untouched.
package project
