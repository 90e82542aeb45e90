// Package timeouts defines timeout and delay constants for launching and
// driving Wizard101 clients.
package timeouts

import "time"

const (
	// Launch Timing

	// LaunchWarmUpDelay is the grace period between issuing the last launch
	// and the first window poll. The client takes a moment to create its
	// main window after the process starts.
	LaunchWarmUpDelay = 2 * time.Second

	// WindowPollInterval is the delay between consecutive window registry
	// snapshots while waiting for the launched clients to appear.
	WindowPollInterval = 500 * time.Millisecond

	// WindowStallTimeout is the maximum time to wait for every launched
	// client window to appear. A failed launch or a crashed client means
	// the expected window count is never reached, so the wait must end
	// somewhere. Clients usually appear within a few seconds, but patching
	// on first start can take much longer.
	WindowStallTimeout = 3 * time.Minute

	// Configuration Generator

	// PromptRetryDelay is the pause after a rejected passphrase before the
	// generator prompts again.
	PromptRetryDelay = 500 * time.Millisecond
)
