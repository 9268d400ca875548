package videoFs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type fakeS3 struct {
	s3iface.S3API

	mu      sync.Mutex
	objects map[string]string
	pages   [][]string
	gets    []string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, *in.Key)
	body, ok := f.objects[*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	for i, keys := range f.pages {
		page := &s3.ListObjectsV2Output{}
		for _, k := range keys {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
		}
		if !fn(page, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func TestListKeys(t *testing.T) {
	client := &fakeS3{pages: [][]string{
		{"reels/", "reels/b.mpg"},
		{"reels/a.mpg"},
	}}
	lib := NewLibraryWithClient(Options{Bucket: "frame", Folder: "reels"}, client)

	ids, err := lib.ListKeys(context.Background())
	if err != nil {
		t.Fatalf("ListKeys failed: %v", err)
	}
	if strings.Join(ids, ",") != "a.mpg,b.mpg" {
		t.Errorf("Unexpected ids %v", ids)
	}
}

func TestListKeysWithoutRemote(t *testing.T) {
	lib, err := NewLibrary(Options{CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLibrary failed: %v", err)
	}
	if _, err := lib.ListKeys(context.Background()); err == nil {
		t.Errorf("Expected error without remote library")
	}
}

func TestResolveDownloadsMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cached.mpg"), []byte("cached"), 0o644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	client := &fakeS3{objects: map[string]string{
		"reels/new.mpg": "fresh",
	}}
	lib := NewLibraryWithClient(Options{CacheDir: dir, Bucket: "frame", Folder: "reels"}, client)

	videos, err := lib.Resolve(context.Background(), []string{"new.mpg", "gone.mpg", "cached.mpg"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(videos) != 2 || videos[0].ID != "new.mpg" || videos[1].ID != "cached.mpg" {
		t.Fatalf("Unexpected videos %+v", videos)
	}
	data, err := os.ReadFile(videos[0].Path)
	if err != nil || string(data) != "fresh" {
		t.Errorf("Expected downloaded content, got %q (%v)", data, err)
	}
	for _, key := range client.gets {
		if key == "reels/cached.mpg" {
			t.Errorf("Cached video was downloaded again")
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "gone.mpg")); !os.IsNotExist(err) {
		t.Errorf("Failed download left a file behind")
	}
}

func TestResolveNothingAvailable(t *testing.T) {
	lib := NewLibraryWithClient(Options{CacheDir: t.TempDir()}, nil)

	_, err := lib.Resolve(context.Background(), []string{"a.mpg"})
	if !errors.Is(err, ErrNoVideos) {
		t.Errorf("Expected ErrNoVideos, got %v", err)
	}
}

func TestLocalVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mpg", "a.MP4", "notes.txt", ".partial.mpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mpg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ids, err := LocalVideos(dir)
	if err != nil {
		t.Fatalf("LocalVideos failed: %v", err)
	}
	if strings.Join(ids, ",") != "a.MP4,b.mpg" {
		t.Errorf("Unexpected ids %v", ids)
	}
}
