// Command demo runs a small interactive showcase of tick-driven coroutine
// tasks: a staged banner animation and a background fetch, both written as
// marked procedures and driven by a registry ticking at the frame rate.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	var (
		fps = flag.Int("fps", 30, "Scheduler ticks per second")
	)
	flag.Parse()

	if *fps < 1 {
		fmt.Fprintln(os.Stderr, "Usage: demo [-fps n]")
		os.Exit(1)
	}

	if err := runDemo(*fps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
