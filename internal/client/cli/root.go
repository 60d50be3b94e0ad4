package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var errUnknownCommand = errors.New("unknown command")

const helpText = "Available commands: upload <file> [id], get <id> [output], info <id>, delete <id> <key>, exit"

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "upload", "u":
		return a.upload(ctx, args)
	case "get":
		return a.get(ctx, args)
	case "info":
		return a.info(ctx, args)
	case "delete", "rm":
		return a.delete(ctx, args)
	case "help":
		fmt.Fprintln(a.out, helpText)
		return nil
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

func (a *App) Root(ctx context.Context) {

	fmt.Fprintf(a.out, "blobhost CLI, server %s (type 'help' for commands)\n", a.config.ServerURL)

	for {
		fmt.Fprint(a.out, "blobhost> ")
		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)

		if len(parts) > 0 {
			cmd, args := parts[0], parts[1:]
			if cmd == "exit" || cmd == "quit" {
				fmt.Fprintln(a.out, "Bye!")
				return
			}
			if err := a.dispatch(ctx, cmd, args); err != nil {
				fmt.Fprintln(a.out, "Error:", err)
			}
		}

		if err != nil {
			return
		}
	}

}
