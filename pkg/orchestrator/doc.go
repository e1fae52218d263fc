// Package orchestrator wires the loader → lint → decode → transform → wizard
// → renderer pipeline behind a single Generate call, for callers that want
// one rendered step without running a server.
package orchestrator
