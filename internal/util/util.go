// Package util holds small formatting helpers for command-line output.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"ministry/internal/errors"
)

// FileSummary describes a file written by a command.
type FileSummary struct {
	Path   string
	Size   int64
	SHA256 string
}

func (s FileSummary) String() string {
	short := s.SHA256
	if len(short) > 12 {
		short = short[:12]
	}

	return fmt.Sprintf("%s (%s, sha256 %s)", s.Path, FormatBytes(s.Size), short)
}

// SummarizeFile reads the file at path and returns its size and SHA-256 checksum.
func SummarizeFile(path string) (FileSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return FileSummary{}, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return FileSummary{}, errors.Wrap(err, "failed to calculate checksum")
	}

	return FileSummary{Path: path, Size: size, SHA256: hex.EncodeToString(hash.Sum(nil))}, nil
}

// FormatBytes formats bytes in binary units, e.g. "1.5 KB".
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}

// FormatDuration rounds d and formats it as "850ms", "45s", "5m10s" or "1h30m".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
