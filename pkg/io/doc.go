// Package io provides JSON import and export for task dependency graphs.
//
// # Overview
//
// An exported graph is a self-contained snapshot: tasks with their layer
// and metadata, dependency edges, and the critical path at the time of
// export. It can be rendered again later without access to the store:
//
//	taskgraph graph --format json -o plan.json
//	taskgraph graph --input plan.json --format svg -o plan.svg
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": 1, "label": "Design", "row": 0, "meta": {"start": "2025-03-10"}},
//	    {"id": 2, "label": "Build", "row": 1}
//	  ],
//	  "edges": [
//	    {"from": 2, "to": 1}
//	  ],
//	  "criticalPath": [1, 2]
//	}
//
// An edge reads "from depends on to". Node ids are positive integers;
// label, row and meta are optional.
//
// # Validation
//
// [ReadJSON] rejects duplicate node ids, edges that reference unknown
// nodes and graphs that contain a cycle, so anything it returns can be
// rendered directly.
package io
