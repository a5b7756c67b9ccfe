// Package log provides the process-wide structured logger and HTTP
// exchange logging for cloudapp.
package log
