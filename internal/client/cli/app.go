// Package cli implements the interactive Messagely client: a small
// read-eval-print loop over the server's HTTP API.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/messagely/internal/client/api"
	"github.com/dmitrijs2005/messagely/internal/client/config"
)

type App struct {
	config   *config.Config
	api      *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config: c,
		api:    api.NewClient(c.ServerEndpointAddr),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string {
		if a.isLoggedIn() {
			return a.userName
		}
		return "anonymous"
	}, scanner)
}
