// Command isdhard estimates the hardest instances of generic decoding for
// information set decoding algorithms over Hamming and Lee metric codes.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
