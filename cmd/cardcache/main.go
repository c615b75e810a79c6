// main is the entry point for the cardcache CLI.
package main

import (
	"cardcache/cmd"
	"cardcache/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
