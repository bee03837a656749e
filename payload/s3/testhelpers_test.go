//go:build integration

package s3

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

const (
	testBucket   = "webhooks-test"
	testUser     = "vaultadmin"
	testPassword = "vaultsecret"
)

// MinioContainer holds the MinIO testcontainer and a client bound to it
type MinioContainer struct {
	Container *minio.MinioContainer
	Client    *s3.Client
}

// SetupMinioContainer starts MinIO and creates the test bucket
func SetupMinioContainer(t *testing.T, ctx context.Context) (*MinioContainer, func()) {
	t.Helper()

	container, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-01-16T16-07-38Z",
		minio.WithUsername(testUser),
		minio.WithPassword(testPassword),
	)
	require.NoError(t, err, "failed to start MinIO container")

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get MinIO address")

	client, err := NewClient(ctx, Options{
		Region:          "us-east-1",
		EndpointURL:     "http://" + addr,
		AccessKeyID:     testUser,
		SecretAccessKey: testPassword,
	})
	require.NoError(t, err)

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(testBucket)})
	require.NoError(t, err, "failed to create bucket")

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate MinIO container: %v", err)
		}
	}
	return &MinioContainer{Container: container, Client: client}, cleanup
}
