// Package server implements the HTTP surface of pagegate. It wires the
// publish endpoint, the page server, health and metrics routes, the
// optional object-storage mirror and webhook notifier, and provides
// lifecycle helpers used by tests and the production binary.
package server
