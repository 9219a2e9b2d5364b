package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/sshkey"
)

// EnsureSSHKey uploads a public key unless a key with the same fingerprint
// already exists, and returns the key as known to the API.
func (c *RealClient) EnsureSSHKey(ctx context.Context, key *sshkey.PublicKey, namePrefix string, labels map[string]string) (*hcloud.SSHKey, error) {
	existing, _, err := c.client.SSHKey.GetByFingerprint(ctx, key.LegacyFingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ssh key: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, _, err := c.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      key.Name(namePrefix),
		PublicKey: key.Authorized,
		Labels:    labels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh key: %w", err)
	}
	return created, nil
}

// DeleteSSHKey deletes the SSH key with the given name.
func (c *RealClient) DeleteSSHKey(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.SSHKey]{
		Name:         name,
		ResourceType: "ssh key",
		Get:          c.client.SSHKey.Get,
		Delete:       c.client.SSHKey.Delete,
	}).Execute(ctx, c)
}

// resolveSSHKeys resolves key references to SSH key objects. A reference
// that names a public key file is uploaded first; anything else must name
// a key that already exists.
func (c *RealClient) resolveSSHKeys(ctx context.Context, refs []string, namePrefix string, labels map[string]string) ([]*hcloud.SSHKey, error) {
	var keys []*hcloud.SSHKey
	for _, ref := range refs {
		if sshkey.IsFileRef(ref) {
			pub, err := sshkey.Load(ref)
			if err != nil {
				return nil, slice.Validation("submit", err.Error())
			}
			key, err := c.EnsureSSHKey(ctx, pub, namePrefix, labels)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			continue
		}

		key, _, err := c.client.SSHKey.Get(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to get ssh key %s: %w", ref, err)
		}
		if key == nil {
			return nil, slice.Validation("submit", fmt.Sprintf("ssh key not found: %s", ref))
		}
		keys = append(keys, key)
	}
	return keys, nil
}
