// Command ikdemo shows a three-joint arm reaching for a target that orbits
// its base.
//
//	ikdemo --config arm.yaml --watch
//	ikdemo --headless 120 --iterations 4
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
