// Package testutil provides utilities for testing kickstart components.
//
// Key components:
//   - TestTemplate: declarative template directory builder on t.TempDir()
//   - Scripted: a prompt.Prompter that replays canned answers and records
//     which questions were asked
//   - NewTestFS: in-memory filesystem for fast, isolated tests
//
// All test data should be defined inline, not in external files.
package testutil
