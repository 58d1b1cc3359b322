// Package builder implements the graph builder: node and
// connection registration, and the build sequence that hands a validated
// topology to the scheduler, allocator driver, and barrier planner.
//
// Connections are buffered until Build runs; nothing about a connection is
// validated at Connect time beyond the duplicate-sink and argument checks
// that can be answered without knowing the rest of the graph.
package builder
