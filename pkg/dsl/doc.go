/*
Package dsl provides a Go DSL for programmatically constructing trmc programs.

It lets developers assemble states from typed path operations instead of writing
path characters by hand, which is useful for generated programs, unit tests and
IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/trmc/pkg/dsl"
	)

	func main() {
		b := dsl.New("increment")

		b.Always(dsl.Path().Last().Jump(2))
		b.Branch(
			dsl.Path().Set().Jump(3),          // cell is 0
			dsl.Path().Clear().Left().Jump(2), // cell is 1: carry
		)
		b.End()

		prog := b.Build()  // *domain.Program, ready for trmc.Engine.Run
		src := b.Source()  // "}2\n\\3 /<2\nEND\n"
	}
*/
package dsl
