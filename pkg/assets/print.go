package assets

import (
	"fmt"
	"strings"
)

// Line formats one asset according to output flags, in the same spirit as
// classic column flags: n (name), i (id), t (type), c (category id),
// s (series name), z (size category), g (tags), u (download URL),
// p (provider), d (directory). Unknown flags yield an error so typos don't
// silently drop columns.
func Line(a Asset, outputFlags, delimiter string) (string, error) {
	var line string
	for _, f := range outputFlags {
		switch f {
		case 'n':
			line += a.Name + delimiter
		case 'i':
			line += a.ID + delimiter
		case 't':
			line += a.Type + delimiter
		case 'c':
			line += a.CategoryID + delimiter
		case 's':
			line += a.SeriesName + delimiter
		case 'z':
			line += a.SizeCategory + delimiter
		case 'g':
			line += strings.Join(a.Tags, ",") + delimiter
		case 'u':
			line += a.DownloadURL + delimiter
		case 'p':
			line += a.Provider + delimiter
		case 'd':
			line += a.Dir + delimiter
		default:
			return "", fmt.Errorf("invalid output flag: %q", f)
		}
	}
	return strings.TrimSuffix(line, delimiter), nil
}

// Print writes one line per asset using Line formatting.
func Print(list []Asset, outputFlags, delimiter string) error {
	for _, a := range list {
		line, err := Line(a, outputFlags, delimiter)
		if err != nil {
			return err
		}
		if len(line) > 0 {
			fmt.Println(line)
		}
	}
	return nil
}
