package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/slicectl/cmd/slicectl/handlers"
	"github.com/imamik/slicectl/internal/config"
)

// Create returns the create command.
//
// The create command submits a slice, waits until every node and network is
// active and prints an SSH command per node.
func Create(global *handlers.Global) *cobra.Command {
	opts := handlers.CreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a slice and wait until it is ready",
		Long: `Create submits a slice to the backend and waits until it is ready.

Without --spec the default slice is created: a single node "ipv4-node" with
a NIC_Basic component "shared-nic" attached to the l3-public network
"public-proxy-net". --site, --image and --flavor override the node defaults.

--ssh-key is either a key name known to the backend or the path to an
OpenSSH public key. The key is attached to every node.

Examples:
  slicectl create --slice-name demo --ssh-key ~/.ssh/id_ed25519.pub
  slicectl create --spec slice.yaml --ssh-key ops-key --backend hcloud`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Global = *global
			return handlers.Create(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.SliceName, "slice-name", "", "Name of the slice (required unless set in --spec)")
	f.StringVar(&opts.SSHKey, "ssh-key", "", "SSH key name or path to an OpenSSH public key (required)")
	f.IntVar(&opts.LeaseDays, "lease-days", config.DefaultLeaseDays, "Lease length in days")
	f.StringVar(&opts.Site, "site", config.DefaultSite, "Site of the default node")
	f.StringVar(&opts.Image, "image", config.DefaultImage, "Image of the default node")
	f.StringVar(&opts.Flavor, "flavor", config.DefaultFlavor, "Flavor of the default node")
	f.StringVar(&opts.SpecPath, "spec", "", "Path to a YAML resource spec")
	f.DurationVar(&opts.PollInterval, "poll-interval", 0, "Interval between readiness polls (default from $SLICECTL_POLL_INTERVAL)")
	f.DurationVar(&opts.Timeout, "timeout", 0, "Readiness deadline (default from $SLICECTL_WAIT_TIMEOUT)")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "Write provisioning metrics in Prometheus text format to this file")

	_ = cmd.MarkFlagRequired("ssh-key")

	return cmd
}
