// Command passivation-demo drives a passivation.Manager against a
// simulated worker pool so the handshake, LRU eviction, and idle
// sweep behavior can be watched end to end without a real cluster.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
