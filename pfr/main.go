package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/mpreda/folio/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// A .env next to the ledger is the easiest place for GEMINI_API_KEY.
	godotenv.Load()

	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion wires shell completion. Exits the process when invoked by
// the shell's completion hook, a no-op otherwise.
func completion() {
	flags := map[string]complete.Predictor{
		"ledger":   predict.Files("*.json"),
		"currency": predict.Set{"EUR", "USD", "GBP", "CHF"},
		"raw":      predict.Nothing,
	}
	pfr := &complete.Command{
		Flags: flags,
		Sub: map[string]*complete.Command{
			"sells":    {Flags: map[string]complete.Predictor{"group": predict.Set{"symbol", "account", "year"}}},
			"holdings": {},
			"income":   {},
			"summary":  {},
			"export":   {Flags: map[string]complete.Predictor{"o": predict.Files("*.csv")}},
			"fmt":      {Flags: map[string]complete.Predictor{"check": predict.Nothing}},
			"watch":    {},
			"topic":    {},
			"assist":   {},
		},
	}
	pfr.Complete("pfr")
}
