// Package file provides file-based implementations of driven port
// interfaces.
//
// Adapters:
//   - SettingsStore: TOML-based validator thresholds and correction
//     parameters
package file
