// Package domain holds the vault's lock state: the seal status machine,
// the Shamir configuration it was initialized with, and the shares and
// progress reports exchanged while unsealing.
package domain

// Status is the vault's current lock state.
type Status string

const (
	// StatusUninitialized means the vault has never been initialized.
	StatusUninitialized Status = "uninitialized"
	// StatusSealed means the vault is initialized but the master key is
	// not in memory; secrets and transit operations are unavailable.
	StatusSealed Status = "sealed"
	// StatusUnsealed means the master key is in memory and the vault is
	// fully operational.
	StatusUnsealed Status = "unsealed"
)

// ShamirConfig describes how the master key is split: shares is Shamir's N,
// threshold is Shamir's M (the minimum number of shares needed to
// reconstruct the key).
type ShamirConfig struct {
	Shares    int
	Threshold int
}

// Validate checks the configuration against the bounds the splitting
// scheme and the wire format both require.
func (c ShamirConfig) Validate() error {
	if c.Threshold < 1 {
		return ErrInvalidConfig
	}
	if c.Shares < 1 {
		return ErrInvalidConfig
	}
	if c.Shares > 255 || c.Threshold > 255 {
		return ErrInvalidConfig
	}
	if c.Shares < c.Threshold {
		return ErrInvalidConfig
	}
	if c.Shares > 1 && c.Threshold == 1 {
		return ErrInvalidConfig
	}
	return nil
}

// Share is a single Shamir share, given to one key holder. Index is the
// share's 1-based x-coordinate, redundantly carried alongside Data (whose
// last byte is that same coordinate, per hashicorp/vault/shamir's wire
// format) so callers never need to parse Data to identify a share.
type Share struct {
	Index int
	Data  []byte
}

// InitResult is returned once, at initialization time: the root token in
// the clear, and the shares to distribute to key holders. Neither value is
// ever persisted in plaintext.
type InitResult struct {
	RootToken string
	Shares    []Share
}

// UnsealProgress reports how many shares have been submitted toward the
// threshold after a single unseal call.
type UnsealProgress struct {
	Sealed    bool
	Threshold int
	Progress  int
}
