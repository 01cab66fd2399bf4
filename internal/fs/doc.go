// Package fs abstracts the file operations used for atomic blob writes so that
// tests can inject write, sync and rename failures.
package fs
