/*
Package ports defines the driven ports (interfaces) for trmc.

These interfaces decouple the interpreter from program storage and from the adapters
that expose it (HTTP, MCP).

# Key Interfaces

  - ProgramLoader: read-only access to a program library (e.g. a Loam repository).
  - ProgramStore: read/write program persistence (memory, file, Redis).
  - Watchable: loaders that can signal backend changes.
  - Interpreter: the parse/validate/run/graph surface used by the adapters.
*/
package ports
