package importer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SizeBucket maps a byte-size ceiling onto a size-category label.
// Buckets are evaluated smallest ceiling first; the last bucket may omit
// MaxBytes (zero) and catches everything larger.
type SizeBucket struct {
	Label    string `yaml:"label"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// Rules controls how the importer classifies files. The zero value is
// unusable; start from DefaultRules and override via a YAML file.
type Rules struct {
	// TypeExtensions maps an asset type to the file extensions (without
	// the dot) it claims. Extensions not claimed by any type are skipped.
	TypeExtensions map[string][]string `yaml:"type_extensions"`
	SizeBuckets    []SizeBucket        `yaml:"size_buckets"`
}

// DefaultRules covers the formats the editor ships support for.
func DefaultRules() Rules {
	return Rules{
		TypeExtensions: map[string][]string{
			"model":       {"glb", "gltf", "obj", "fbx"},
			"texture":     {"png", "jpg", "jpeg", "tga", "ktx2"},
			"material":    {"mat"},
			"audio":       {"ogg", "wav", "mp3"},
			"environment": {"hdr", "exr"},
		},
		SizeBuckets: []SizeBucket{
			{Label: "XS", MaxBytes: 64 << 10},
			{Label: "S", MaxBytes: 1 << 20},
			{Label: "M", MaxBytes: 16 << 20},
			{Label: "L", MaxBytes: 128 << 20},
			{Label: "XL"},
		},
	}
}

// LoadRules reads a YAML rules file and overlays it on the defaults:
// sections present in the file replace the default section wholesale,
// absent sections keep the defaults.
func LoadRules(path string) (Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, err
	}
	var overlay Rules
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return Rules{}, fmt.Errorf("%s: %w", path, err)
	}

	rules := DefaultRules()
	if len(overlay.TypeExtensions) > 0 {
		rules.TypeExtensions = overlay.TypeExtensions
	}
	if len(overlay.SizeBuckets) > 0 {
		rules.SizeBuckets = overlay.SizeBuckets
	}
	if err := rules.validate(); err != nil {
		return Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

func (r Rules) validate() error {
	for typ, exts := range r.TypeExtensions {
		if typ == "" {
			return fmt.Errorf("type_extensions: empty type name")
		}
		if len(exts) == 0 {
			return fmt.Errorf("type_extensions: type %q claims no extensions", typ)
		}
	}
	for _, b := range r.SizeBuckets {
		if b.Label == "" {
			return fmt.Errorf("size_buckets: bucket without a label")
		}
	}
	return nil
}

// typeFor resolves a file extension to an asset type, or "" if no type
// claims it.
func (r Rules) typeFor(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for typ, exts := range r.TypeExtensions {
		for _, e := range exts {
			if strings.ToLower(e) == ext {
				return typ
			}
		}
	}
	return ""
}

// bucketFor resolves a byte size to a size-category label.
func (r Rules) bucketFor(size int64) string {
	buckets := append([]SizeBucket(nil), r.SizeBuckets...)
	sort.SliceStable(buckets, func(i, j int) bool {
		// Zero means "no ceiling" and sorts last.
		if buckets[i].MaxBytes == 0 {
			return false
		}
		if buckets[j].MaxBytes == 0 {
			return true
		}
		return buckets[i].MaxBytes < buckets[j].MaxBytes
	})
	for _, b := range buckets {
		if b.MaxBytes == 0 || size <= b.MaxBytes {
			return b.Label
		}
	}
	return ""
}
