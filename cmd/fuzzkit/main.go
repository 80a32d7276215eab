// fuzzkit: sandbox API fuzzing toolkit.
// Loads a target profile, enforces its guardrails, and plans a session.
package main

import "github.com/ppiankov/fuzzkit/internal/cli"

func main() {
	cli.Execute()
}
