// Package services implements the driving port interfaces.
// Services contain the core harvesting logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external service dependencies of
// their own; everything that touches the network sits behind a
// driven port.
package services
