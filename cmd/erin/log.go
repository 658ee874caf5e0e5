package main

import "github.com/bigladder/erin/internal/diagnostics"

// cliLog is the shared diagnostics sink every subcommand logs through,
// tagged "erin" so its lines read "[INFO] erin: message" per spec.md §6.
var cliLog = diagnostics.New("erin")
