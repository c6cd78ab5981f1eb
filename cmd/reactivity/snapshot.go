package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/internal/errors"
	"github.com/vango-dev/reactivity/pkg/snapshot"
)

type snapshotFlags struct {
	from      string
	local     bool
	out       string
	bucket    string
	prefix    string
	region    string
	endpoint  string
	pathStyle bool
	timeout   time.Duration
}

func snapshotCmd(flags *globalFlags) *cobra.Command {
	sf := &snapshotFlags{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export a dependency graph snapshot",
		Long: `Fetch a dependency graph snapshot from a running devtools server and
write it to a directory or an S3 bucket.

Flags override the snapshot section of the config file.

Examples:
  reactivity snapshot --out=snapshots
  reactivity snapshot --from=127.0.0.1:7070 --bucket=graphs --region=us-east-1
  reactivity snapshot --local --out=.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, flags, sf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sf.from, "from", "", "Devtools address to fetch from (default from config)")
	f.BoolVar(&sf.local, "local", false, "Snapshot this process instead of a server")
	f.StringVarP(&sf.out, "out", "o", "", "Directory to write to")
	f.StringVar(&sf.bucket, "bucket", "", "S3 bucket to upload to")
	f.StringVar(&sf.prefix, "prefix", "", "S3 key prefix")
	f.StringVar(&sf.region, "region", "", "S3 region")
	f.StringVar(&sf.endpoint, "endpoint", "", "S3 endpoint override")
	f.BoolVar(&sf.pathStyle, "path-style", false, "Use path-style S3 addressing")
	f.DurationVar(&sf.timeout, "timeout", 30*time.Second, "Overall timeout")

	return cmd
}

func runSnapshot(cmd *cobra.Command, flags *globalFlags, sf *snapshotFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	sc := cfg.Snapshot
	if sf.out != "" {
		sc.Dir = sf.out
	}
	if sf.bucket != "" {
		sc.Bucket = sf.bucket
	}
	if sf.prefix != "" {
		sc.Prefix = sf.prefix
	}
	if sf.region != "" {
		sc.Region = sf.region
	}
	if sf.endpoint != "" {
		sc.Endpoint = sf.endpoint
	}
	if sf.pathStyle {
		sc.PathStyle = true
	}
	sink, err := sinkFromConfig(sc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sf.timeout)
	defer cancel()

	var snap *snapshot.Snapshot
	if sf.local {
		snap = snapshot.Take()
	} else {
		addr := sf.from
		if addr == "" {
			addr = cfg.Devtools.Addr
		}
		snap, err = fetchSnapshot(ctx, addr)
		if err != nil {
			return err
		}
	}

	loc, err := snapshot.Export(ctx, sink, snap)
	if err != nil {
		return err
	}
	success(cmd.OutOrStdout(), "Snapshot written to %s", loc)
	info(cmd.OutOrStdout(), "%d targets, %d subscriptions", snap.Stats.Targets, snap.Stats.Subscriptions)
	return nil
}

// fetchSnapshot reads /api/snapshot from a devtools server.
func fetchSnapshot(ctx context.Context, addr string) (*snapshot.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/api/snapshot", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("Could not reach devtools at " + addr).
			WithSuggestion("Start it with 'reactivity serve' or pass --local").
			Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("E140").WithDetail(fmt.Sprintf("devtools answered %s", resp.Status))
	}
	return snapshot.Decode(resp.Body)
}
