package logging

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// rotate removes the oldest orderdesk_*.log files in dir beyond maxFiles.
// It runs before a new file is created, so maxFiles-1 old files survive.
func rotate(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	type logFile struct {
		path    string
		modUnix int64
	}
	var files []logFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{path: filepath.Join(dir, name), modUnix: info.ModTime().UnixNano()})
	}
	if len(files) < maxFiles {
		return nil
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].modUnix == files[j].modUnix {
			return files[i].path < files[j].path
		}
		return files[i].modUnix < files[j].modUnix
	})
	for i := 0; i <= len(files)-maxFiles; i++ {
		os.Remove(files[i].path)
	}
	return nil
}
