package main

import "catalogsync/cmd"

// set via ldflags at build time
var (
	version = "0"
	commit  = "abcd1234"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
