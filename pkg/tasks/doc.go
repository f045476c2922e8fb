// Package tasks is the application layer shared by the HTTP API and the CLI.
//
// A [Service] validates input, loads a snapshot from a [storage.Store],
// runs the cycle check or the schedule analyzer over it, and turns every
// failure into a structured error from pkg/errors. Both front ends call
// the same methods, so they agree on validation order and error codes.
//
// # Dependency updates
//
// [Service.SetDependencies] runs, in order:
//
//  1. Input validation (INVALID_ID)
//  2. Existence of the task (TASK_NOT_FOUND) and of every dependency (NOT_FOUND)
//  3. [dag.WouldCreateCycle] over the persisted graph (CYCLE_DETECTED)
//  4. [storage.Store.ReplaceDependencies], a single transaction
//
// Storage is never written when any earlier step fails.
//
// [storage.Store]: github.com/matzehuels/taskgraph/pkg/storage.Store
// [storage.Store.ReplaceDependencies]: github.com/matzehuels/taskgraph/pkg/storage.Store
// [dag.WouldCreateCycle]: github.com/matzehuels/taskgraph/pkg/dag.WouldCreateCycle
package tasks
