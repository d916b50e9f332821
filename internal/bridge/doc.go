// Package bridge is the UI's side of the SiaDrive host bridge.
//
// The host owns every stateful operation: wallet creation and unlock,
// mounting the storage volume, the renter allowance, and the lifecycle of
// its own refresh loop. The UI reaches it through three small interfaces:
//
//   - EnvironmentReader: the read-only snapshot used to pick the first screen
//   - ActionBridge: imperative operations, fire-and-forget or Future-based
//   - UpdateSource: unsolicited state pushes (balances, drives, allowance,
//     external unmount notices)
//
// # Futures
//
// Operations that can fail return a *Future that resolves exactly once with
// a Result. Callers never block the UI goroutine on a Future; the terminal
// UI awaits it inside a tea.Cmd so the Result comes back as a message.
//
// No timeout is applied to a Future. A Client resolves every outstanding
// Future with a failure when its connection closes.
//
// # Implementations
//
//   - Client: websocket client speaking internal/protocol
//   - bridgetest.Recorder: in-memory double for tests
package bridge
