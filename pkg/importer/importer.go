// Package importer turns a local directory tree into catalog asset
// records: files are classified by extension, bucketed by size, tagged
// from their path segments and deduplicated by content hash, mirroring
// what the editor does when assets are dropped into its library panel.
package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/harmonyedit/assetcat/internal/utils"
	"github.com/harmonyedit/assetcat/pkg/assets"
)

// Result is what one import run produced.
type Result struct {
	Assets  []assets.Asset
	Skipped int // files no rule claimed
	Dupes   int // files whose content already appeared in this batch
}

// Import walks root and builds asset records for every file the rules
// claim. Duplicate content within one batch (same sha256) is skipped;
// unreadable files are logged and skipped rather than failing the run.
func Import(root string, rules Rules) (Result, error) {
	root = filepath.Clean(root)
	var res Result
	seen := make(map[string]string) // content hash -> first path

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		typ := rules.typeFor(filepath.Ext(path))
		if typ == "" {
			res.Skipped++
			return nil
		}

		info, err := d.Info()
		if err != nil {
			utils.Log.Warnf("Skipping %s: %v", path, err)
			res.Skipped++
			return nil
		}

		sum, err := hashFile(path)
		if err != nil {
			utils.Log.Warnf("Skipping %s: %v", path, err)
			res.Skipped++
			return nil
		}
		if first, dup := seen[sum]; dup {
			utils.Log.Debugf("Duplicate content: %s (first seen at %s)", path, first)
			res.Dupes++
			return nil
		}
		seen[sum] = path

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		res.Assets = append(res.Assets, assets.Asset{
			ID:           uuid.NewString(),
			Name:         baseName(path),
			Type:         typ,
			SizeCategory: rules.bucketFor(info.Size()),
			Tags:         pathTags(rel),
			Dir:          filepath.ToSlash(filepath.Dir(rel)),
			Provider:     "local",
			DownloadURL:  path,
			FileSize:     info.Size(),
			Source:       "import",
		})
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	sort.Slice(res.Assets, func(i, j int) bool {
		return res.Assets[i].DownloadURL < res.Assets[j].DownloadURL
	})
	return res, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// pathTags derives tags from the directory segments of a relative path:
// "Props/Outdoor/rock.glb" tags as ["props", "outdoor"].
func pathTags(rel string) []string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." || dir == "" {
		return nil
	}
	var tags []string
	seen := make(map[string]bool)
	for _, seg := range strings.Split(dir, "/") {
		tag := strings.ToLower(strings.TrimSpace(seg))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
