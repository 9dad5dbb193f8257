// Package secrets reads credentials from Google Cloud Secret Manager.
package secrets

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/spiffcs/issuecost/config"
	"google.golang.org/api/option"
)

const fetchTimeout = 10 * time.Second

// projectEnvVars are checked in order for the project of short secret names.
var projectEnvVars = []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"}

// accessor is the subset of the Secret Manager client used here.
type accessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (string, error)
	Close() error
}

type gcpAccessor struct {
	client *secretmanager.Client
}

func (g *gcpAccessor) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (string, error) {
	result, err := g.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", err
	}
	return string(result.GetPayload().GetData()), nil
}

func (g *gcpAccessor) Close() error {
	return g.client.Close()
}

// Client fetches secret payloads.
type Client struct {
	api       accessor
	projectID string
}

// Ensure Client implements config.SecretSource.
var _ config.SecretSource = (*Client)(nil)

// NewClient creates a Secret Manager client using application default credentials.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	return &Client{
		api:       &gcpAccessor{client: client},
		projectID: projectFromEnv(),
	}, nil
}

// Open adapts NewClient to config.SecretSourceFactory.
func Open(ctx context.Context) (config.SecretSource, error) {
	return NewClient(ctx)
}

func projectFromEnv() string {
	for _, name := range projectEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// FetchSecret retrieves a secret. ref can be in one of the following formats:
//   - projects/PROJECT_ID/secrets/SECRET_NAME/versions/VERSION
//   - projects/PROJECT_ID/secrets/SECRET_NAME (defaults to latest)
//   - SECRET_NAME (requires the project from the environment)
func (c *Client) FetchSecret(ctx context.Context, ref string) (string, error) {
	name, err := c.normalizeSecretPath(ref)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	value, err := c.api.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version %s: %w", name, err)
	}

	return strings.TrimSpace(value), nil
}

// normalizeSecretPath expands ref to a full secret version name
func (c *Client) normalizeSecretPath(ref string) (string, error) {
	if strings.HasPrefix(ref, "projects/") && strings.Contains(ref, "/versions/") {
		return ref, nil
	}

	if strings.HasPrefix(ref, "projects/") && strings.Contains(ref, "/secrets/") {
		return ref + "/versions/latest", nil
	}

	if c.projectID == "" {
		return "", fmt.Errorf("secret %q needs a project: set GOOGLE_CLOUD_PROJECT or use a full projects/... name", ref)
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.projectID, path.Base(ref)), nil
}

// Close closes the Secret Manager client
func (c *Client) Close() error {
	if c.api != nil {
		return c.api.Close()
	}
	return nil
}
