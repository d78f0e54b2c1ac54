// Package logger is a standardized event logging framework for shell
// sessions. Events are written as newline delimited JSON and can be read back
// to build reports.
package logger
