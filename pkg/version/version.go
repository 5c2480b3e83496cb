// Package version holds the build version of taskmill. The values are set
// by the main package at startup.
package version

var (
	// Version is the version of the server.
	Version = ""

	// CommitSHA is the commit SHA of the server.
	CommitSHA = ""

	// CommitDate is the commit date of the server.
	CommitDate = ""
)
