// Package sshkey loads OpenSSH public keys referenced by slice specs.
//
// A key reference is either the name of a key already registered with the
// backend or a path to an authorized_keys formatted public key file. Files
// are parsed with golang.org/x/crypto/ssh so malformed keys are rejected
// before anything is submitted.
package sshkey
