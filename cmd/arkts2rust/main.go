// Command arkts2rust translates a source file written in the supported
// ArkTS subset into a Rust source file. The binary is thin plumbing:
// argument parsing and file I/O live here, everything else in
// internal/compiler.
package main

import (
	"flag"
	"fmt"
	"os"

	"arkts2rust/internal/compiler"
)

func main() {
	fs := flag.NewFlagSet("arkts2rust", flag.ExitOnError)
	output := fs.String("o", "output.rs", "output file path")
	fs.Usage = usage
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	input := fs.Arg(0)

	src, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", input, err)
		os.Exit(2)
	}

	rust, err := compiler.Compile(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, []byte(rust), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *output, err)
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: arkts2rust [-o <output.rs>] <input.ets>")
}
