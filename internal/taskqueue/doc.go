// Package taskqueue provides a serial FIFO task runner: at most one
// task in flight per queue, each start separated from the previous
// task's settlement by a configurable minimum interval.
//
// The history engine uses it to throttle persistence writes during
// write-heavy edit sessions (continuous drags) without dropping or
// reordering any edit. Each Push returns a Future that settles with
// that task's own outcome; one task failing never poisons its
// siblings or stalls the queue.
package taskqueue
