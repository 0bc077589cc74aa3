// Package main provides the gradgraph CLI.
//
// Commands:
//
//	gradgraph version
//	gradgraph check [-config file.yaml]
//	gradgraph metrics [-config file.yaml]
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("gradgraph %s\n", version)
		return
	case "check":
		err = runCheck(os.Args[2:], os.Stdout)
	case "metrics":
		err = runMetrics(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "gradgraph: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("gradgraph - reverse-mode automatic differentiation for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  check      Run gradient scenarios against reference values")
	fmt.Println("  metrics    Run the scenarios and print Prometheus metrics")
}
