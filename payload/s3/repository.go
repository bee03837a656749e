package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/marcelsud/webhook-vault/payload"
	"golang.org/x/sync/errgroup"
)

// headConcurrency bounds the metadata requests issued per listing page
const headConcurrency = 8

// API is the subset of the S3 client used by the repository
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type Repository struct {
	client API
	bucket string
}

func NewRepository(client API, bucket string) *Repository {
	return &Repository{client: client, bucket: bucket}
}

func (r *Repository) Put(ctx context.Context, obj payload.Object) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		Metadata:      obj.Metadata,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	_, err := r.client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("putting object %s: %w", obj.Key, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string) (payload.Object, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return payload.Object{}, payload.ErrNotFound
		}
		return payload.Object{}, fmt.Errorf("getting object %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return payload.Object{}, fmt.Errorf("reading object %s: %w", key, err)
	}
	return payload.Object{
		Key:          key,
		Body:         body,
		ContentType:  aws.ToString(out.ContentType),
		Size:         int64(len(body)),
		LastModified: aws.ToTime(out.LastModified),
		Metadata:     normalize(out.Metadata),
	}, nil
}

// Delete removes key. S3 acknowledges deletes of missing keys, so the object
// is checked first and a missing one reported as payload.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return payload.ErrNotFound
		}
		return fmt.Errorf("checking object %s: %w", key, err)
	}

	_, err = r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

// List returns one page of objects under prefix. Metadata is fetched with a
// bounded number of concurrent HEAD requests; objects that vanish between the
// listing and the HEAD are skipped.
func (r *Repository) List(ctx context.Context, prefix string, limit int, cursor string) (payload.ObjectPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(r.bucket),
		MaxKeys: aws.Int32(int32(limit)),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if cursor != "" {
		input.ContinuationToken = aws.String(cursor)
	}
	out, err := r.client.ListObjectsV2(ctx, input)
	if err != nil {
		return payload.ObjectPage{}, fmt.Errorf("listing objects under %q: %w", prefix, err)
	}

	objects := make([]*payload.Object, len(out.Contents))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(headConcurrency)
	for i, item := range out.Contents {
		g.Go(func() error {
			obj, err := r.head(gCtx, item)
			if err != nil {
				if isNotFound(err) {
					return nil
				}
				return err
			}
			objects[i] = &obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payload.ObjectPage{}, err
	}

	page := payload.ObjectPage{
		Objects:   make([]payload.Object, 0, len(objects)),
		Truncated: aws.ToBool(out.IsTruncated),
	}
	for _, obj := range objects {
		if obj != nil {
			page.Objects = append(page.Objects, *obj)
		}
	}
	if page.Truncated {
		page.NextCursor = aws.ToString(out.NextContinuationToken)
	}
	return page, nil
}

func (r *Repository) head(ctx context.Context, item types.Object) (payload.Object, error) {
	key := aws.ToString(item.Key)
	out, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    item.Key,
	})
	if err != nil {
		return payload.Object{}, fmt.Errorf("reading metadata of %s: %w", key, err)
	}
	return payload.Object{
		Key:          key,
		ContentType:  aws.ToString(out.ContentType),
		Size:         aws.ToInt64(item.Size),
		LastModified: aws.ToTime(item.LastModified),
		Metadata:     normalize(out.Metadata),
	}, nil
}

// FindKey walks every page under prefix. There is no index from id to key.
func (r *Repository) FindKey(ctx context.Context, prefix, id string) (string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(r.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("scanning objects under %q: %w", prefix, err)
		}
		for _, item := range out.Contents {
			key := aws.ToString(item.Key)
			if payload.MatchesID(key, id) {
				return key, nil
			}
		}
	}
	return "", payload.ErrNotFound
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

// normalize lowercases metadata keys; providers differ in how they echo them
func normalize(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[strings.ToLower(k)] = v
	}
	return out
}
