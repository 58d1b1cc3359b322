// Package app contains the demo harness's core logic: building a
// gpufake-backed graph (optionally from a declarative graph file), driving
// a fixed number of frames through it, and reporting profiler output. It is
// decoupled from any specific entrypoint like a CLI or server.
package app
