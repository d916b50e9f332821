// Package config manages the SiaDrive UI preferences file.
//
// The file is YAML and stores where to find the host bridge, hosts seen
// through discovery, the last mounted drive and logging preferences.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/siadrive/config.yaml or $HOME/.config/siadrive/config.yaml
//   - macOS: $HOME/.config/siadrive/config.yaml
//   - Windows: %LOCALAPPDATA%\siadrive\config.yaml
//
// # Security
//
// The wallet password and seed are NEVER written to this file.
//
// # Usage Example
//
//	reg, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg.Preferences.LastDrive = "Z:\\"
//	if err := reg.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry is loaded once. Saves are serialized by a mutex and
// written atomically through a temporary file.
package config
