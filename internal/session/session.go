// Package session encodes and decodes the names of terminal sessions running
// inside the sandbox.
//
// A session name joins the command that runs in the session with the
// workspace it runs in: "<command>@<location>". The location "~" is the
// container home directory. Session names are only built with Encode and
// only split with Decode.
package session

import "strings"

const (
	// Delimiter separates the command from the location in a session name.
	// It may not appear in workspace, agent or command names.
	Delimiter = "@"

	// Home is the location of sessions that run in the container home directory.
	Home = "~"
)

// Token is a session name as understood by the in-container multiplexer.
type Token string

func (t Token) String() string {
	return string(t)
}

// Parts is a decoded session name.
type Parts struct {
	Command  string
	Location string
}

// Encode joins a command and a location into a session name.
// No validation is done here; callers validate names before encoding.
func Encode(command, location string) Token {
	return Token(command + Delimiter + location)
}

// Decode splits a session name on its last delimiter.
//
// Names without a delimiter, or with an empty command or location, are
// treated as legacy names: the whole name is the command and the location
// is Home.
func Decode(t Token) Parts {
	s := string(t)
	i := strings.LastIndex(s, Delimiter)
	if i <= 0 || i == len(s)-len(Delimiter) {
		return Parts{Command: s, Location: Home}
	}
	return Parts{
		Command:  s[:i],
		Location: s[i+len(Delimiter):],
	}
}

// ValidateToken reports an error when value cannot be embedded in a session
// name. label names the value in the error message, e.g. "Agent name".
func ValidateToken(value, label string) error {
	if strings.Contains(value, Delimiter) {
		return &InvalidNameError{Label: label, Value: value, Cause: CauseDelimiter}
	}
	return nil
}

var registryReplacer = strings.NewReplacer(".", "_", ":", "_")

// RegistryName returns s as tmux stores it: tmux replaces "." and ":" in
// session names with "_". A location read back from the registry equals
// RegistryName of the workspace it was opened in.
func RegistryName(s string) string {
	return registryReplacer.Replace(s)
}
