package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/blobhost/internal/client/client"
	"github.com/dmitrijs2005/blobhost/internal/client/config"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		client: client.NewHTTPClient(c.ServerURL, c.Timeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

// Run executes args as a single command, or starts the prompt when args
// is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Root(ctx)
		return nil
	}
	return a.dispatch(ctx, args[0], args[1:])
}
