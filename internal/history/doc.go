// Package history implements the per-project undo/redo machine over a
// persisted history log.
//
// A Machine is single-use for one project id and moves through three
// phases: uninitialized, initializing, initialized. Initialization is
// idempotent and absorbs every failure into an empty cursor - the
// editor must always be able to open with a blank history even when
// recovery fails. All cursor-dependent operations gate on the one-shot
// readiness result, so nothing can run ahead of an in-flight Init.
//
// The persisted store owns record content; the machine caches only its
// position in the log (current id, index, length). History is linear:
// pushing while behind the tail discards the redo branch, matching
// conventional editors.
package history
