package cli

import (
	"bufio"
	"os"

	"github.com/dmitrijs2005/fincontext/internal/client/api"
	"github.com/dmitrijs2005/fincontext/internal/client/config"
)

type App struct {
	config   *config.Config
	client   *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	client := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)
	return &App{config: c, client: client, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.IsAuthenticated()
}
