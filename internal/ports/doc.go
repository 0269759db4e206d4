// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [Transport]: Opens per-directive sessions on the bus
//   - [Session]: Transmits frames under one arbitration id
//   - [Generator]: Produces the directive stream for a run
//   - [CorpusSink]: Records dispatched directives for replay
//   - [CheckpointStore]: Persists and loads the resume cursor
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement these interfaces
// with concrete implementations (SocketCAN, file system, in-memory loopback).
//
// This separation enables:
//   - Testing the dispatch loop without bus hardware
//   - Swapping infrastructure without changing fuzzing logic
//   - Clear boundaries and dependency direction
package ports
