// Package protocol defines the JSON frames exchanged with the SiaDrive host
// bridge over a websocket.
//
// # Frame Kinds
//
//   - hello: sent once by the host right after the upgrade, carrying the
//     environment snapshot the UI uses to pick its first screen
//   - request: an action issued by the UI (id, op, args)
//   - response: completion of a request that reports an outcome
//     (id, ok, reason or payload)
//   - event: an unsolicited state push from the host (event, data)
//
// # Example
//
//	{"type":"request","id":"5c1d...","op":"mountDrive","args":{"location":"Z:\\"}}
//	{"type":"response","id":"5c1d...","ok":true}
//	{"type":"event","event":"driveUnmounted"}
//
// Only createWallet, unlockWallet, mountDrive and unmountDrive are answered.
// The remaining ops are fire-and-forget.
package protocol
