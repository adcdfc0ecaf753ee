// Package logs reads and follows the serdata log file.
//
// Tail returns the last N complete lines of the file. Follow polls for
// appended lines so `serdata logs --follow` streams new output until the
// command is cancelled.
package logs
