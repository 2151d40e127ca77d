package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/rolo/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	view := flag.String("view", "", "start at this location, e.g. /contacts?search=ana (optional)")
	apiURL := flag.String("api", "", "contacts API base URL (optional)")
	refreshSeconds := flag.Int("refresh", 0, "background reload interval in seconds (optional, off by default)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		View:       *view,
		APIURL:     *apiURL,
	}
	if refresh := *refreshSeconds; refresh > 0 {
		opts.RefreshSeconds = refresh
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "rolo: %v\n", err)
		return 1
	}
	return 0
}
