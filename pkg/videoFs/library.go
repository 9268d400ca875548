package videoFs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"golang.org/x/sync/errgroup"
)

// ErrNoVideos is returned when none of the requested videos could be made
// available locally
var ErrNoVideos = errors.New("no videos available")

// downloadConcurrency caps parallel S3 downloads
const downloadConcurrency = 3

// Video is a content identifier resolved to a playable local file
type Video struct {
	ID   string
	Path string
}

// Options locate the video cache and, optionally, the remote library
type Options struct {
	CacheDir string
	Bucket   string
	Folder   string
	Region   string
}

// Library resolves content identifiers to files in the cache directory,
// fetching missing ones from S3 when a bucket is configured
type Library struct {
	opts   Options
	client s3iface.S3API
}

// NewLibrary creates a library. Credentials come from AWS_ACCESS_KEY_ID and
// AWS_SECRET_ACCESS_KEY when both are set, else from the default chain.
func NewLibrary(opts Options) (*Library, error) {
	if opts.Bucket == "" {
		return &Library{opts: opts}, nil
	}

	awsCfg := &aws.Config{Region: aws.String(opts.Region)}
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if accessKey != "" && secretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewLibraryWithClient(opts, s3.New(sess)), nil
}

// NewLibraryWithClient creates a library using an existing S3 client
func NewLibraryWithClient(opts Options, client s3iface.S3API) *Library {
	return &Library{opts: opts, client: client}
}

// Remote reports whether the library can download from S3
func (l *Library) Remote() bool {
	return l.client != nil && l.opts.Bucket != ""
}

// ListKeys returns the identifiers of every object in the remote folder,
// sorted by name
func (l *Library) ListKeys(ctx context.Context) ([]string, error) {
	if !l.Remote() {
		return nil, errors.New("ListKeys: no remote library configured")
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(l.opts.Bucket),
		Prefix: aws.String(l.opts.Folder),
	}

	var ids []string
	err := l.client.ListObjectsV2PagesWithContext(ctx, input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue // skip empty keys or "directories"
			}
			ids = append(ids, path.Base(*obj.Key))
		}
		return !lastPage
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", l.opts.Bucket, l.opts.Folder, err)
	}

	sort.Strings(ids)
	log.Printf("ListKeys completed | bucket=%s | folder=%s | found=%d", l.opts.Bucket, l.opts.Folder, len(ids))
	return ids, nil
}

// Resolve maps ids to local files, keeping their order. Videos missing from
// the cache are downloaded when the library is remote; ids that cannot be
// resolved are logged and skipped.
func (l *Library) Resolve(ctx context.Context, ids []string) ([]Video, error) {
	if err := os.MkdirAll(l.opts.CacheDir, os.ModePerm); err != nil {
		return nil, err
	}

	resolved := make([]*Video, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)

	for i, id := range ids {
		localPath := filepath.Join(l.opts.CacheDir, filepath.Base(id))
		if _, err := os.Stat(localPath); err == nil {
			resolved[i] = &Video{ID: id, Path: localPath}
			continue
		}
		if !l.Remote() {
			log.Printf("Resolve: %s not in cache and no remote library, skipping", id)
			continue
		}

		g.Go(func() error {
			if err := l.download(ctx, id, localPath); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("Resolve: failed to download %s: %v", id, err)
				return nil // skip this video but keep going
			}
			resolved[i] = &Video{ID: id, Path: localPath}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(ids))
	for _, v := range resolved {
		if v != nil {
			videos = append(videos, *v)
		}
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: requested %d", ErrNoVideos, len(ids))
	}

	log.Printf("Resolve completed | requested=%d | available=%d", len(ids), len(videos))
	return videos, nil
}

// download fetches one object into localPath via a temporary file so a
// partial download never looks cached
func (l *Library) download(ctx context.Context, id, localPath string) error {
	key := path.Join(l.opts.Folder, id)
	result, err := l.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer result.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, result.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), localPath)
}
