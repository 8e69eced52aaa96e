package main

import "github.com/felixguerrero12/SessionSentry/internal/cmd"

func main() {
	cmd.Execute()
}
