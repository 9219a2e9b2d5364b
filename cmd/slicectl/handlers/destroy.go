package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/slice"
)

// Destroy handles the destroy command.
//
// It looks the slice up by name and tears it down. A slice that does not
// exist is reported and treated as success.
func Destroy(ctx context.Context, g Global, name string) error {
	logger := newLogger(stderr, g.Verbosity)

	client, err := newClient(g, logger, config.LoadTimeouts())
	if err != nil {
		return err
	}

	h, err := client.GetSlice(ctx, name)
	if slice.IsNotFound(err) {
		fmt.Fprintf(stdout, "Slice %s does not exist, nothing to destroy\n", name)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("destroying slice", "slice", h.Name, "id", h.ID)
	if err := client.Teardown(ctx, h); err != nil {
		return fmt.Errorf("destroy slice %q: %w", name, err)
	}

	fmt.Fprintf(stdout, "Slice %s destroyed\n", name)
	return nil
}
