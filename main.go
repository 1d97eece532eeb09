// Package main is the entry point for the gatewrench CLI.
package main

import "gatewrench.dev/pkg/gatewrench/cmd"

func main() {
	cmd.Execute()
}
