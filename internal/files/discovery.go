package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// PeriodFile is a discovered file tagged with the period it covers
type PeriodFile struct {
	FileInfo
	Period string
}

// PeriodFunc derives a period from the submatches of a file name pattern
type PeriodFunc func(groups []string) string

// Raw file name patterns of the survey modules
var (
	// MonthlyPattern matches "avars_201901_EN_1.0p.csv"
	MonthlyPattern = regexp.MustCompile(`^avars_(\d{4})(\d{2})_EN_.*\.(csv|xlsx|parquet|gob|dta)$`)
	// WaveYearPattern matches core study files such as "ci08a_1.0p_EN.csv"
	WaveYearPattern = regexp.MustCompile(`^[a-z]{2}(\d{2})[a-z]_.*\.(csv|xlsx|parquet|gob|dta)$`)
	// StudyWavePattern matches single-study files such as "L_gaudecker2018_1_6p.csv"
	StudyWavePattern = regexp.MustCompile(`^L_[a-z]+(\d{4})_(\d+)_.*\.(csv|xlsx|parquet|gob|dta)$`)
)

// MonthPeriod renders MonthlyPattern matches as "YYYY-MM"
func MonthPeriod(groups []string) string {
	return groups[1] + "-" + groups[2]
}

// YearPeriod renders the two-digit year of WaveYearPattern as "20YY"
func YearPeriod(groups []string) string {
	return "20" + groups[1]
}

// WavePeriod returns the wave number of StudyWavePattern
func WavePeriod(groups []string) string {
	return strings.TrimLeft(groups[2], "0")
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) fullPath(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindTabularFiles finds the loadable files directly inside dir, sorted by name
func (d *Discovery) FindTabularFiles(dir string) ([]FileInfo, error) {
	fullPath := d.fullPath(dir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := FormatOf(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FindPeriodic walks dir, including wave subdirectories, and returns the
// files whose base name matches pattern, tagged by period. Two files
// claiming the same period are kept; squashing resolves them by path.
func (d *Discovery) FindPeriodic(dir string, pattern *regexp.Regexp, period PeriodFunc) ([]PeriodFile, error) {
	root := d.fullPath(dir)
	var files []PeriodFile
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		groups := pattern.FindStringSubmatch(entry.Name())
		if groups == nil {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		files = append(files, PeriodFile{
			FileInfo: FileInfo{
				Path:    path,
				Name:    entry.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			},
			Period: period(groups),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
