// Package workflow drives the onboarding and mount toggle workflows on top
// of the navigator.
//
// Every controller runs on the UI goroutine. A call into the bridge returns
// a tea.Cmd that waits for the bridge Future off the UI goroutine and comes
// back as one of the *ResultMsg messages, which Session.Handle routes to
// the owning controller.
//
// Reentrancy is guarded by explicit armed flags. A controller disarms in the
// same turn it issues a call and re-arms only in the branch that handles the
// call's outcome. Failures are shown through the shared Modal; for retry
// flows the re-arm happens when the user acknowledges it.
package workflow
