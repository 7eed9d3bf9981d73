// tradectl drives the trade ledger from the command line: it plays the
// role the grid UI does in the browser, reporting user gestures to the
// ledger controller and session.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/username/tradebook/backend/src/config"
	"github.com/username/tradebook/backend/src/ledger"
	"github.com/username/tradebook/backend/src/logger"
	"github.com/username/tradebook/backend/src/store"
)

// newSession wires a controller and session against the configured
// remote store.
func newSession() (*ledger.Controller, *ledger.Session) {
	client := store.NewClient(config.Cfg.StoreBaseURL, config.Cfg.RequestTimeout)
	ctrl := ledger.NewController(client, ledger.SlogNotifier{})
	return ctrl, ledger.NewSession(ctrl)
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&listCmd{}, "ledger")
	subcommands.Register(&importCmd{}, "ledger")
	subcommands.Register(&exportCmd{}, "ledger")
	subcommands.Register(&addCmd{}, "ledger")
	subcommands.Register(&deleteCmd{}, "ledger")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
