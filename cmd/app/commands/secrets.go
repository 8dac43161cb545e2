package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	secretsDTO "github.com/nubster-opensources/egide/internal/secrets/http/dto"
)

// RunSecretsGet calls GET /v1/secrets/{path} and prints the decrypted data.
func RunSecretsGet(ctx context.Context, w io.Writer, addr, token, path string) error {
	client := newAPIClient(addr, token)

	var resp secretsDTO.SecretResponse
	if err := client.do(ctx, "GET", "/v1/secrets/"+normalizeSecretPath(path), nil, &resp); err != nil {
		return err
	}

	fmt.Fprintf(w, "Path:    %s\n", resp.Path)
	fmt.Fprintf(w, "Version: %d\n", resp.Version)
	for k, v := range resp.Data {
		fmt.Fprintf(w, "%s = %s\n", k, v)
	}
	return nil
}

// RunSecretsPut calls PUT /v1/secrets/{path} with the given key/value data.
func RunSecretsPut(ctx context.Context, w io.Writer, addr, token, path string, data map[string]string) error {
	client := newAPIClient(addr, token)

	req := secretsDTO.PutSecretRequest{Data: data}
	var resp secretsDTO.SecretResponse
	if err := client.do(ctx, "PUT", "/v1/secrets/"+normalizeSecretPath(path), req, &resp); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote %s (version %d)\n", resp.Path, resp.Version)
	return nil
}

// RunSecretsDelete calls DELETE /v1/secrets/{path}.
func RunSecretsDelete(ctx context.Context, w io.Writer, addr, token, path string) error {
	client := newAPIClient(addr, token)

	if err := client.do(ctx, "DELETE", "/v1/secrets/"+normalizeSecretPath(path), nil, nil); err != nil {
		return err
	}

	fmt.Fprintf(w, "Deleted %s\n", path)
	return nil
}

// RunSecretsList calls GET /v1/secrets and prints every stored path.
func RunSecretsList(ctx context.Context, w io.Writer, addr, token string) error {
	client := newAPIClient(addr, token)

	var resp secretsDTO.ListSecretsResponse
	if err := client.do(ctx, "GET", "/v1/secrets", nil, &resp); err != nil {
		return err
	}

	if len(resp.Data) == 0 {
		fmt.Fprintln(w, "No secrets stored.")
		return nil
	}
	for _, s := range resp.Data {
		status := ""
		if s.Deleted {
			status = " (deleted)"
		}
		fmt.Fprintf(w, "%s\tv%d%s\n", s.Path, s.Version, status)
	}
	return nil
}

// normalizeSecretPath strips any leading slash so it doesn't collide with
// the URL's own path separator.
func normalizeSecretPath(path string) string {
	return strings.TrimPrefix(path, "/")
}
