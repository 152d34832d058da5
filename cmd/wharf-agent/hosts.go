package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wharf-ops/wharf/internal/config"
	"github.com/wharf-ops/wharf/internal/domain/catalog"
)

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List hosts in the catalog and their reachability",
	RunE:  runHosts,
}

func runHosts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		return err
	}

	store, err := connectStore(ctx, cfg)
	if err != nil {
		printError(err)
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	hosts, err := store.LoadHosts(ctx)
	if err != nil {
		printError(err)
		return err
	}

	ids := make([]catalog.HostID, 0, len(hosts))
	for id := range hosts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tAGENT\tREACHABLE\tPEERS")
	for _, id := range ids {
		h := hosts[id]
		agentMark := ""
		if h.Agent {
			agentMark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", h.ID, agentMark, reachabilityString(h.Reachable()), len(h.SSH))
	}
	return w.Flush()
}

func reachabilityString(reachable bool) string {
	if reachable {
		return color.GreenString("yes")
	}
	return color.RedString("no")
}
