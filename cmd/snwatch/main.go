// Command snwatch lists recently discovered supernovae that are observable
// from a chosen site and time window.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
