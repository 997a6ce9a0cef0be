package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/subcommands"
)

// watchCmd re-renders the summary whenever the ledger file changes.
type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "re-render the summary on ledger changes" }
func (*watchCmd) Usage() string {
	return `pfr watch

  Watches the ledger file and prints a fresh summary after every save.
  Ctrl-C to stop.
`
}

func (*watchCmd) SetFlags(_ *flag.FlagSet) {}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.render(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot watch %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer watcher.Close()
	if err := watcher.Add(*ledgerFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot watch %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	// Editors save through write bursts or rename-and-replace, debounce
	// and re-arm the watch on every pass.
	var debounce *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case ev, ok := <-watcher.Events:
			if !ok {
				return subcommands.ExitSuccess
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			watcher.Add(*ledgerFile)
			if err := c.render(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return subcommands.ExitSuccess
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
		}
	}
}

func (c *watchCmd) render(ctx context.Context) error {
	md, err := summaryMarkdown(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\n--- %s ---\n", time.Now().Format("15:04:05"))
	printMarkdown(md)
	return nil
}
