package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ProcessedDirName is the shared output directory beneath the base folder.
const ProcessedDirName = "processed"

// Collection groups the subtitle files of one series directory.
type Collection struct {
	Name  string
	Files []string
}

// ScanCollections lists the top-level series directories under base that
// contain subtitle files with the given extension. The processed output
// directory and hidden directories are skipped. Results are sorted so runs
// are reproducible.
func ScanCollections(base, extension string) ([]Collection, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("scan base folder %q: %w", base, err)
	}

	var collections []Collection
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == ProcessedDirName || strings.HasPrefix(name, ".") {
			continue
		}
		files, err := subtitleFiles(filepath.Join(base, name), extension)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		collections = append(collections, Collection{Name: name, Files: files})
	}

	sort.Slice(collections, func(i, j int) bool { return collections[i].Name < collections[j].Name })
	return collections, nil
}

func subtitleFiles(dir, extension string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan collection %q: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), extension) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath returns where the transliterated form of srcPath is written:
// processed/<collection>/<stem><suffix><extension> under the base folder.
func OutputPath(base, collection, srcPath, suffix, extension string) string {
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	return filepath.Join(base, ProcessedDirName, collection, stem+suffix+extension)
}

// FindProcessed walks the processed directory beneath base recursively and
// returns every subtitle file with the given extension, sorted.
func FindProcessed(base, extension string) ([]string, error) {
	root := filepath.Join(base, ProcessedDirName)
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("processed folder not found: %s", root)
		}
		return nil, fmt.Errorf("stat processed folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("processed path is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk processed folder: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// SourcePath derives the trusted original for a processed document. The
// collection is the processed file's parent directory name, the stem drops
// the output suffix, and the original lives beside the processed tree:
// <base>/<collection>/<stem><extension>, two levels above the file.
func SourcePath(processedPath, suffix, extension string) string {
	dir := filepath.Dir(processedPath)
	collection := filepath.Base(dir)
	stem := strings.TrimSuffix(filepath.Base(processedPath), filepath.Ext(processedPath))
	stem = strings.ReplaceAll(stem, suffix, "")
	base := filepath.Dir(filepath.Dir(dir))
	return filepath.Join(base, collection, stem+extension)
}
