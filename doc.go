// Package rendergraph implements a declarative, node-based GPU execution
// graph: given a set of processing nodes and their typed connections, it
// computes a topological schedule, allocates GPU resources with
// lifetime-aware aliasing, derives the minimal set of synchronization
// barriers, and drives per-frame execution under a multi-frame-in-flight
// ring.
//
// The package never talks to a real GPU API directly. Devices, queues,
// command buffers, and allocators are collaborator interfaces (see
// Device, Queue, PersistentAllocator, AliasingAllocator below); callers
// supply concrete implementations (a Vulkan/D3D12/Metal wrapper, or
// internal/gpufake for tests and the demo in cmd/rgdemo).
package rendergraph
