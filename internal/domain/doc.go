// Package domain contains the core entities and value objects for canfuzz.
//
// This package represents the innermost layer of the architecture. It has
// no dependencies on infrastructure concerns (CAN sockets, file system,
// logging) and contains only the pure fuzzing logic.
//
// # Entities
//
//   - [Directive]: A single (arbitration id, payload) pair with its
//     textual codec
//   - [Bitmap]: A positional free/fixed selector with the mask/merge
//     algebra shared by the brute-force and mutation strategies
//   - [Ring]: The ring-carry enumerator over an ordered digit alphabet
//   - [BoundedLog]: A fixed-capacity circular record of sent directives
//   - [Checkpoint]: The persisted resume cursor for a run
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on the generation rules and their invariants
//   - Testable without mocks or external systems
package domain
