// Package task defines the domain types shared by storage, the dependency
// graph, the schedule analyzer and the HTTP/CLI surfaces.
//
// A [Task] is the persisted unit of work. An [Edge] is a directed
// dependency read as "TaskID depends on DependsOnID": the dependency must
// finish before the dependent can start. This is the only direction
// convention in the module; storage columns, the graph mutator and the
// analyzer all use it.
//
// An [Analysis] record is derived from a snapshot of tasks on each query
// and never stored.
//
// # Wire Format
//
// Dates are encoded as RFC 3339 in UTC with millisecond precision
// (see [TimeFormat]). Absent dates and image URLs are encoded as explicit
// nulls rather than empty strings.
package task
