package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/provisioning"
	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/sshkey"
)

// CreateOptions holds the flags of the create command.
type CreateOptions struct {
	Global

	SliceName string
	SSHKey    string
	LeaseDays int
	Site      string
	Image     string
	Flavor    string
	SpecPath  string

	PollInterval time.Duration
	Timeout      time.Duration
	MetricsFile  string
}

// Create handles the create command.
//
// It builds the resource spec, submits it, waits for readiness and prints
// one SSH command per node. Metrics are written even when provisioning fails.
func Create(ctx context.Context, opts CreateOptions) error {
	logger := newLogger(stderr, opts.Verbosity)

	spec, err := buildSpec(opts)
	if err != nil {
		return err
	}
	keyRef, err := resolveKeyRef(opts.SSHKey, logger)
	if err != nil {
		return err
	}

	timeouts := config.LoadTimeouts()
	client, err := newClient(opts.Global, logger, timeouts)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	defer writeMetrics(opts.MetricsFile, reg, logger)

	orch := provisioning.NewOrchestrator(client, *spec,
		provisioning.WithLogger(logger.WithName("orchestrator")),
		provisioning.WithMetrics(provisioning.NewMetrics(reg)),
		provisioning.WithRetryPolicy(timeouts.PollPolicy()),
	)

	for _, n := range spec.Nodes {
		if err := orch.AttachKey(n.Name, keyRef); err != nil {
			return err
		}
	}

	logger.Info("creating slice", "slice", spec.Name, "nodes", len(spec.Nodes), "networks", len(spec.Networks))
	if _, err := orch.Submit(ctx); err != nil {
		return err
	}

	pollInterval := firstPositive(opts.PollInterval, timeouts.PollInterval)
	timeout := firstPositive(opts.Timeout, timeouts.WaitReady)
	s, err := orch.WaitReady(ctx, pollInterval, timeout)
	if err != nil {
		if s != nil && s.State == slice.StateFailed {
			logger.Info("slice failed; release its resources with slicectl destroy", "slice", spec.Name)
		}
		return err
	}

	conns, err := provisioning.Resolve(s)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, renderConnections(newPrinter(), s, conns))
	return nil
}

// buildSpec loads the spec file or builds the default slice. --slice-name
// overrides the name in the spec file.
func buildSpec(opts CreateOptions) (*slice.ResourceSpec, error) {
	if opts.SSHKey == "" {
		return nil, slice.Validation("create", "--ssh-key is required")
	}
	if opts.LeaseDays <= 0 {
		return nil, slice.Validation("create", fmt.Sprintf("--lease-days must be a positive integer, got %d", opts.LeaseDays))
	}

	if opts.SpecPath == "" {
		if opts.SliceName == "" {
			return nil, slice.Validation("create", "--slice-name is required")
		}
		overrides := config.NodeOverrides{Site: opts.Site, Image: opts.Image, Flavor: opts.Flavor}
		return config.DefaultSpec(opts.SliceName, "", opts.LeaseDays, overrides, now()), nil
	}

	spec, err := config.LoadSpec(opts.SpecPath, now())
	if err != nil {
		return nil, err
	}
	if opts.SliceName != "" {
		spec.Name = opts.SliceName
	}
	if spec.Lease == nil {
		spec.Lease = slice.LeaseFor(now(), opts.LeaseDays)
	}
	return spec, nil
}

// resolveKeyRef validates a key file and logs its fingerprint. Key names
// are passed through for the backend to resolve.
func resolveKeyRef(ref string, logger logr.Logger) (string, error) {
	if !sshkey.IsFileRef(ref) {
		return ref, nil
	}
	key, err := sshkey.Load(ref)
	if err != nil {
		return "", slice.Validation("create", err.Error())
	}
	logger.Info("using public key", "path", key.Path, "type", key.Type, "fingerprint", key.Fingerprint)
	return key.Path, nil
}

func firstPositive(values ...time.Duration) time.Duration {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
