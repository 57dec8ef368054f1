/*
Package trmc is a tiny tape machine: a virtual machine over a fixed-length bit tape
that executes programs written in a line-oriented transition-table language.

# Concept

A program is a list of states, one per source line, numbered from 1. A state is either
END, a single path that always runs, or two space-separated paths chosen by the value of
the cell under the cursor (first for 0, second for 1). A path is a string of single
character operations:

	>  move right        <  move left
	}  jump to last cell  {  jump to first cell
	\  set the cell       /  clear the cell
	!  flip the cell      0-9  jump to the state with that number

Execution starts in state 1 with the cursor on cell 0 and stops when an END state is
reached or the cursor leaves the tape; the cursor is clamped back onto the last valid cell.
Comments start with "//" and run to the end of the line.

# Usage

	eng := trmc.New(trmc.WithMaxSteps(1_000_000))

	prog, err := eng.Parse("increment", []byte("}2\n\\3 /<2\nEND\n"))
	if err != nil {
		log.Fatal(err)
	}

	for _, line := range eng.Validate(prog).Lines() {
		log.Println(line)
	}

	res, err := eng.RunString(context.Background(), prog, "0111")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Output(), res.Cursor, res.Iterations) // 1000 0 5

The same engine backs the trmc CLI, the HTTP API in pkg/adapters/http and the MCP
server in pkg/adapters/mcp.
*/
package trmc
