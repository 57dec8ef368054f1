/*
Package domain contains the core domain models of the trmc tape machine.

It defines the entities shared by the decoder, the engine and the validator. This
package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Tape: The fixed-length sequence of bit cells the machine reads and writes.
  - Op: One atomic cursor/tape mutation encoded by a single path character.
  - State: One line of a program, holding one path, two paths keyed by cell value, or the END marker.
  - Program: The ordered, immutable list of States addressed by 1-based ordinals.
  - Result: The observable outcome of a run (tape, cursor, iterations, halt reason).
  - Diagnostic / Report: Findings produced by the static validator.
*/
package domain
