// Package cli implements the blobhost command-line client.
//
// Commands:
//
//	upload <file> [id]     store a file, optionally under a custom id
//	get <id> [output]      download an object to a file
//	info <id>              show object metadata
//	delete <id> <key>      remove an object with its deletion key
//
// With no command the client starts an interactive prompt accepting the
// same commands plus help and exit.
package cli
