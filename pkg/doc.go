// Package pkg provides the libraries behind taskgraph, a task tracker that
// keeps its dependency graph acyclic and schedules tasks over it.
//
// # Overview
//
// A task has a title, an optional due date and an optional image, and may
// depend on other tasks. Every task takes one day. From the dependency
// graph taskgraph derives the earliest date each task can start and the
// critical path: the longest chain of dependencies ending at the task that
// finishes last.
//
// # Architecture
//
//	HTTP API (api) / CLI (internal/cli)
//	         ↓
//	    [tasks] service (validation, cycle check, orchestration)
//	     ↓            ↓                 ↓
//	[storage]     [dag] + [schedule]   [integrations/pexels]
//	sqlite/mongo  cycle check, layers   image lookup via [cache]
//
// # Main Packages
//
// ## Domain
//
//   - [task]: Task, Edge and Analysis types with their JSON/YAML wire form
//   - [dag]: dependency graph with the would-create-cycle check
//   - [dag/transform]: layering, transitive reduction and cycle breaking
//   - [schedule]: earliest start dates, critical path and parallel waves
//   - [tasks]: the service that ties validation, storage and analysis together
//
// ## Infrastructure
//
//   - [storage]: the Store interface with sqlite and MongoDB implementations
//   - [cache]: file, Redis and no-op caches for external lookups
//   - [httputil]: retry with exponential backoff
//   - [integrations]: cached HTTP client; [integrations/pexels] finds images
//   - [observability]: hooks for analysis, cache and HTTP events
//   - [errors]: coded errors and input validation
//
// ## Output
//
//   - [api]: JSON HTTP API on chi
//   - [render/nodelink]: Graphviz DOT and SVG export
//   - [io]: JSON snapshot export and import of the graph
//   - [buildinfo]: version information set at build time
//
// [task]: github.com/matzehuels/taskgraph/pkg/task
// [dag]: github.com/matzehuels/taskgraph/pkg/dag
// [dag/transform]: github.com/matzehuels/taskgraph/pkg/dag/transform
// [schedule]: github.com/matzehuels/taskgraph/pkg/schedule
// [tasks]: github.com/matzehuels/taskgraph/pkg/tasks
// [storage]: github.com/matzehuels/taskgraph/pkg/storage
// [cache]: github.com/matzehuels/taskgraph/pkg/cache
// [httputil]: github.com/matzehuels/taskgraph/pkg/httputil
// [integrations]: github.com/matzehuels/taskgraph/pkg/integrations
// [integrations/pexels]: github.com/matzehuels/taskgraph/pkg/integrations/pexels
// [observability]: github.com/matzehuels/taskgraph/pkg/observability
// [errors]: github.com/matzehuels/taskgraph/pkg/errors
// [api]: github.com/matzehuels/taskgraph/pkg/api
// [render/nodelink]: github.com/matzehuels/taskgraph/pkg/render/nodelink
// [io]: github.com/matzehuels/taskgraph/pkg/io
// [buildinfo]: github.com/matzehuels/taskgraph/pkg/buildinfo
package pkg
