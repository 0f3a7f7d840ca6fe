// Command reactivity discovers the Reactivity API domains and queries the
// backend event endpoints. It also runs an in-memory mock backend.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
