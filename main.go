// Package main is the entry point for the fbmetrics CLI tool, which ingests
// football event feeds and computes player/team performance metrics.
package main

import "github.com/jkds/go-football-metrics/cmd"

func main() {
	cmd.Execute()
}
