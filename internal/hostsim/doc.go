// Package hostsim implements a simulated SiaDrive host for development and
// end-to-end tests of the UI.
//
// The simulator keeps wallet, renter and drive state in memory (Backend) and
// serves the bridge protocol over a websocket (Server). It answers every
// request the UI can send and pushes refreshes to each UI that has sent
// startApp.
//
// # Routes
//
//	GET  /bridge           websocket bridge (hello, requests, events)
//	GET  /healthz          liveness
//	GET  /api/status       backend state as JSON
//	POST /api/environment  {"online": false} or {"locked": true}; UIs reload
//	POST /api/drive/eject  drop the mounted drive; UIs get driveUnmounted
//
// # Wallet
//
// createWallet returns a twelve word seed. The seed is the password that
// unlocks the new wallet. Passwords are stored as bcrypt hashes.
//
// # Usage Example
//
//	backend, err := hostsim.NewBackend(hostsim.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := hostsim.New(&hostsim.Config{Port: 9981, Advertise: true}, backend)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
package hostsim
