package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reel-frame/pkg/config"
	"reel-frame/pkg/videoFs"

	"github.com/veandco/go-sdl2/sdl"
)

// ErrNoPages is returned when none of the configured videos could be opened
var ErrNoPages = errors.New("no playable pages")

// resolveIDs picks the identifier list: the manifest when there is one,
// otherwise the remote folder listing, otherwise whatever is in the cache dir
func resolveIDs(ctx context.Context, cfg config.Config, lib *videoFs.Library) ([]string, *config.Manifest, error) {
	manifest, err := config.LoadManifest(cfg.ManifestPath)
	switch {
	case err == nil:
		return manifest.Videos, &manifest, nil
	case !errors.Is(err, config.ErrNoManifest):
		return nil, nil, err
	}

	if lib.Remote() {
		ids, err := lib.ListKeys(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("list remote videos: %w", err)
		}
		log.Printf("resolveIDs: no manifest, using bucket listing | count=%d", len(ids))
		// Keep the order so an offline restart shows the same pages.
		listed := config.Manifest{Videos: ids}
		if err := listed.Save(cfg.ManifestPath); err != nil {
			log.Printf("resolveIDs: failed to save manifest | path=%s err=%v", cfg.ManifestPath, err)
		}
		return ids, &listed, nil
	}

	ids, err := videoFs.LocalVideos(cfg.CacheDir)
	if err != nil {
		return nil, nil, fmt.Errorf("list local videos: %w", err)
	}
	log.Printf("resolveIDs: no manifest, using cache dir | dir=%s count=%d", cfg.CacheDir, len(ids))
	return ids, nil, nil
}

// LoadPages resolves the configured videos and opens a page for each one.
// Videos that fail to download or open are skipped.
func LoadPages(ctx context.Context, cfg config.Config, renderer *sdl.Renderer, playbackRate float64) ([]*VideoPage, *config.Manifest, error) {
	lib, err := videoFs.NewLibrary(videoFs.Options{
		CacheDir: cfg.CacheDir,
		Bucket:   cfg.Bucket,
		Folder:   cfg.Folder,
		Region:   cfg.Region,
	})
	if err != nil {
		return nil, nil, err
	}

	ids, manifest, err := resolveIDs(ctx, cfg, lib)
	if err != nil {
		return nil, nil, err
	}

	videos, err := lib.Resolve(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	pages := make([]*VideoPage, 0, len(videos))
	for _, v := range videos {
		page, err := NewVideoPage(v, renderer, playbackRate)
		if err != nil {
			log.Printf("LoadPages: skipping video | id=%s err=%v", v.ID, err)
			continue
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return nil, nil, ErrNoPages
	}
	log.Printf("LoadPages: ready | pages=%d", len(pages))
	return pages, manifest, nil
}
