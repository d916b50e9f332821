// Package tui implements the terminal front end of the SiaDrive companion.
//
// The application runs in three stages:
//   - Hosts: scan the network for SiaDrive hosts or type a bridge URL
//   - Connecting: dial the host's websocket bridge
//   - Session: the workflow.Session screens (offline, wallet onboarding,
//     main application, renter settings)
//
// A dropped connection moves to a disconnected panel from which the user
// can reconnect or pick another host.
//
// All screens use RenderApplicationContainer for a consistent header,
// content area and context-sensitive footer. Failure alerts from the
// workflows are drawn with RenderModal and swallow every key except the
// acknowledgment.
//
// # Framework Components
//
//   - bubbles/list: discovered host cards
//   - bubbles/textinput: wallet password, bridge URL and allowance fields
//   - bubbles/spinner: scan, connect, create, unlock and mount waits
//   - bubbles/progress: scan progress and renter funds used
//   - bubbles/help and bubbles/key: per-screen key help
//   - lipgloss: styling and layout
//
// # Usage Example
//
//	app := tui.NewAppModel(tui.Options{
//	    BridgeURL: "ws://127.0.0.1:9981/bridge",
//	    Dial:      dial,
//	})
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	final, err := program.Run()
//	if m, ok := final.(tui.AppModel); ok {
//	    m.Close()
//	}
package tui
