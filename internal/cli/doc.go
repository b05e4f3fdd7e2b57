// Package cli implements the dcos command-line interface.
//
// Cobra parses the command line. Node commands then convert the parsed
// command path and flags into cmds.Arguments and hand them to the
// dispatcher, which picks the handler in package node:
//
//	dcos node --info                 - Print a one-line description
//	dcos node [--json]               - List the cluster's agents
//	dcos node ssh (--master | --slave=<id>)
//	                                 - Open an ssh session through the entry point
//	dcos config show|set|unset|init  - Manage ~/.dcos/dcos.yaml
//	dcos version                     - Print build information
//
// # Errors and exit codes
//
// Errors are printed to stderr in the three-part layout of package errors
// and exit 1. A child process's exit status travels as errors.ExitError and
// becomes the process exit code without any output. With --json, errors are
// written to stdout as a JSON envelope instead.
package cli
