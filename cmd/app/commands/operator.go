package commands

import (
	"context"
	"fmt"
	"io"

	sealDTO "github.com/nubster-opensources/egide/internal/seal/http/dto"
)

// RunOperatorInit calls POST /v1/sys/init and prints the root token and
// recovery shares. This is the only time the root token and shares are ever
// shown; callers are responsible for storing them securely.
func RunOperatorInit(ctx context.Context, w io.Writer, addr string, shares, threshold int) error {
	client := newAPIClient(addr, "")

	req := sealDTO.InitRequest{SecretShares: shares, SecretThreshold: threshold}
	var resp sealDTO.InitResponse
	if err := client.do(ctx, "POST", "/v1/sys/init", req, &resp); err != nil {
		return err
	}

	fmt.Fprintln(w, "Vault initialized.")
	fmt.Fprintf(w, "Root token: %s\n", resp.RootToken)
	fmt.Fprintln(w, "Unseal keys (hex):")
	for i, key := range resp.Keys {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, key)
	}
	fmt.Fprintln(w, "Store the root token and unseal keys securely. They cannot be retrieved again.")
	return nil
}

// RunOperatorUnseal calls POST /v1/sys/unseal with one hex-encoded share and
// prints the resulting progress.
func RunOperatorUnseal(ctx context.Context, w io.Writer, addr, key string) error {
	client := newAPIClient(addr, "")

	req := sealDTO.UnsealRequest{Key: key}
	var resp sealDTO.UnsealResponse
	if err := client.do(ctx, "POST", "/v1/sys/unseal", req, &resp); err != nil {
		return err
	}

	if resp.Sealed {
		fmt.Fprintf(w, "Unseal progress: %d/%d shares submitted. Vault still sealed.\n", resp.Progress, resp.Threshold)
	} else {
		fmt.Fprintln(w, "Vault unsealed.")
	}
	return nil
}

// RunOperatorSeal calls POST /v1/sys/seal, requiring a valid token.
func RunOperatorSeal(ctx context.Context, w io.Writer, addr, token string) error {
	client := newAPIClient(addr, token)

	var resp sealDTO.SealResponse
	if err := client.do(ctx, "POST", "/v1/sys/seal", nil, &resp); err != nil {
		return err
	}

	fmt.Fprintln(w, "Vault sealed.")
	return nil
}

// RunStatus calls GET /v1/sys/status and prints the vault's lock state.
func RunStatus(ctx context.Context, w io.Writer, addr string) error {
	client := newAPIClient(addr, "")

	var resp sealDTO.StatusResponse
	if err := client.do(ctx, "GET", "/v1/sys/status", nil, &resp); err != nil {
		return err
	}

	fmt.Fprintf(w, "Version:     %s\n", resp.Version)
	fmt.Fprintf(w, "Initialized: %t\n", resp.Initialized)
	fmt.Fprintf(w, "Sealed:      %t\n", resp.Sealed)
	return nil
}
