// Package simulator emulates the coop-door controller's web server.
//
// A Device keeps the state the real controller keeps (opening time in
// EEPROM, the DCF77-synchronized clock, battery voltage, door position) and
// answers the same URL table with the same texts, including the
// "Keine Antwort vom AVR-Controller" failure when the AVR side is made
// unresponsive. It backs the client tests and the coopdoor-sim command.
//
// Requests are counted per endpoint in Prometheus metrics served on /metrics.
package simulator
