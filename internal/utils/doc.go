// Package utils provides shared utility functions for the mattercrypt client.
//
// This package contains general-purpose helpers used across multiple packages.
//
// # I/O Utilities
//
// Functions for reading from stdin:
//   - ReadStdin: reads standard input to EOF, preserving it verbatim
//
// # String Utilities
//
// Functions for string validation:
//   - IsValidEmail: checks whether a string looks like an email address
package utils
