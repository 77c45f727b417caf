package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vango-dev/registry/pkg/filter"
	"github.com/vango-dev/registry/pkg/registry"
	"github.com/vango-dev/registry/pkg/scope"
	"github.com/vango-dev/registry/pkg/search"
	"github.com/vango-dev/registry/pkg/urlparam"
)

func demoCmd() *cobra.Command {
	var (
		url     string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted registry session in memory",
		Long: `Run a scripted session against an in-memory navigator and print each
step: a synced search input, a reset, a filter merge and a URL sync.

Examples:
  vango-registry demo
  vango-registry demo --url="/shop?page=2" --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			return runDemo(cmd.OutOrStdout(), url, logger)
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "/items?q=potions", "Initial page location")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log registry activity to stderr")

	return cmd
}

func runDemo(out io.Writer, url string, logger *slog.Logger) error {
	nav := urlparam.NewMemory(url)
	root := scope.NewOwner(nil)
	defer root.Dispose()

	searches := search.Provide(root, search.WithNavigator(nav), search.WithLogger(logger))
	filters := filter.Provide(root, filter.WithLogger(logger))

	step := func(format string, args ...any) {
		fmt.Fprintf(out, "• %s\n", fmt.Sprintf(format, args...))
	}

	widget := scope.NewOwner(root)
	in := search.Mount(widget, "q", search.InputOptions{Sync: true})
	step("mounted input q with %q from %s", in.Text(), nav.URL())

	in.Input("elixir")
	in.Commit()
	step("committed q=%q, url is now %s", searches.Snapshot()["q"].QueryString(), nav.URL())

	searches.Add("sort", registry.Some("price"), true)
	searches.Add("draft", registry.Some("unsaved"), false)
	searches.SyncAll()
	step("synced opted-in entries, url is now %s", nav.URL())

	searches.Reset("q")
	q, _ := searches.Get("q")
	step("reset q: query %v, url sync kept %v", q.Query, q.HasURLSync)

	filters.Add(map[string]filter.Entry{
		"color": filter.NewEntry("red", "attr"),
		"size":  filter.NewEntry("M", "attr"),
	})
	filters.Update(map[string]filter.Entry{"color": filter.NewEntry("blue", "attr")})
	color, _ := filters.Get("color")
	step("filters %v, color=%v", filters.IDs(), color.Value)

	widget.Dispose()
	step("unmounted input, search ids %v", searches.IDs())
	step("%d navigations: %v", len(nav.History()), nav.History())
	return nil
}
