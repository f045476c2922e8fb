// Package schedule computes scheduling metrics over a snapshot of tasks.
//
// Every task takes exactly one day ([task.Duration]). A task with no
// dependencies can start now; any other task can start once its latest
// dependency has finished. There is no calendar, no working-day logic and
// no resource levelling.
//
// [Analyze] produces one [task.Analysis] record per input task plus the
// critical path: the longest chain of dependencies ending at the task that
// finishes last. Ties (between terminal candidates and between equally
// late dependencies) go to the lowest task ID, so the result does not
// depend on input order.
//
// Dependencies that reference tasks absent from the input are ignored.
// Analyze never fails; an empty input yields an empty result.
package schedule
