// Package util provides common utility functions.
package util

//go:generate go tool errtrace -w .
