package videoFs

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var videoExtensions = map[string]bool{
	".mpg":  true,
	".mpeg": true,
	".mp4":  true,
	".mkv":  true,
	".webm": true,
}

// LocalVideos returns the identifiers of the playable files already in dir,
// sorted by name
func LocalVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("Error reading %s directory: %v", dir, err)
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)

	log.Printf("LocalVideos completed | dir=%s | found=%d video(s)", dir, len(ids))
	return ids, nil
}
