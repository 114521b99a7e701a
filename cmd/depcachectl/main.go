// Command depcachectl reads, writes and invalidates depcache entries stored
// in Redis. Values are handled as raw JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
