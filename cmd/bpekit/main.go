// Command bpekit trains BPE tokenizer models and uses them to encode,
// decode, and pack sequences.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bpekit:", err)
		os.Exit(1)
	}
}
