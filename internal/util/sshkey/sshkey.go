package sshkey

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// PublicKey is a parsed OpenSSH public key.
type PublicKey struct {
	// Path is the file the key was read from.
	Path string
	// Authorized is the key in authorized_keys format without trailing newline.
	Authorized string
	// Fingerprint is the SHA256 fingerprint, e.g. "SHA256:...".
	Fingerprint string
	// LegacyFingerprint is the MD5 fingerprint, e.g. "ab:cd:...", which some
	// APIs use to identify keys.
	LegacyFingerprint string
	Type              string
	Comment           string
}

// IsFileRef reports whether ref looks like a filesystem path rather than a key name.
func IsFileRef(ref string) bool {
	return strings.HasPrefix(ref, "~") || strings.ContainsAny(ref, `/\`) || strings.HasSuffix(ref, ".pub")
}

// Load reads and parses a public key file. A leading "~/" is expanded.
func Load(path string) (*PublicKey, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	key, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	key.Path = expanded
	return key, nil
}

// Parse parses a single authorized_keys formatted public key.
func Parse(data []byte) (*PublicKey, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return &PublicKey{
		Authorized:        strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pub))),
		Fingerprint:       ssh.FingerprintSHA256(pub),
		LegacyFingerprint: ssh.FingerprintLegacyMD5(pub),
		Type:              pub.Type(),
		Comment:           comment,
	}, nil
}

// Name derives a backend key name from the fingerprint so uploading the
// same key twice resolves to the same name.
func (k *PublicKey) Name(prefix string) string {
	fp := strings.TrimPrefix(k.Fingerprint, "SHA256:")
	fp = strings.NewReplacer("+", "", "/", "", "=", "").Replace(fp)
	if len(fp) > 16 {
		fp = fp[:16]
	}
	return prefix + "-" + strings.ToLower(fp)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
