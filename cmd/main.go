package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/JhonesBR/go-ledger/internal/config"
	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", config.DefaultPath, "path to the YAML configuration file")
	inMemory   = flag.Bool("memory", false, "use a seeded in-memory ledger instead of PostgreSQL")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&serveCmd{}, "server")

	commander.Register(&transferCmd{}, "tools")
	commander.Register(&balanceCmd{}, "tools")
	commander.Register(&accountInfoCmd{}, "tools")
	commander.Register(&historyCmd{}, "tools")
	commander.Register(&accountsCmd{}, "tools")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
