package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/provisioning"
	"github.com/imamik/slicectl/internal/slice"
)

// Inspect handles the inspect command. It prints the nodes and networks of
// the named slice, or fails with NotFound.
func Inspect(ctx context.Context, g Global, name string) error {
	logger := newLogger(stderr, g.Verbosity)

	client, err := newClient(g, logger, config.LoadTimeouts())
	if err != nil {
		return err
	}
	inspector := provisioning.NewInspector(client, logger.WithName("inspector"))

	s, err := inspector.Find(ctx, name)
	if err != nil {
		return err
	}
	if s == nil {
		return slice.NotFound("inspect", "slice", name)
	}

	nodes, err := inspector.EnumerateNodes(ctx, s.Handle())
	if err != nil {
		return err
	}
	networks, err := inspector.EnumerateNetworks(ctx, s.Handle())
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, renderInventory(newPrinter(), s, nodes, networks))
	return nil
}
