package global

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nathanieltooley/pokeduel/errorutils"
	"github.com/samber/lo"
)

const (
	mb = 1000000

	DEFAULT_MAX_LOG_SIZE = 2.5 * mb
	DEFAULT_MAX_ARCHIVES = 2
)

// rollingFileWriter appends to <name>.log until it gets too big, then archives it as <name>-1.log,
// pushing older archives up by one and deleting any past MaxArchives.
type rollingFileWriter struct {
	FileDirectory string
	FileName      string
	MaxSize       int64
	MaxArchives   int

	mu *sync.Mutex
}

func NewRollingFileWriter(fileDir string, fileName string) rollingFileWriter {
	absFileDir := errorutils.Must(filepath.Abs(fileDir))

	// Create dir for log files if they dont exist
	if err := os.MkdirAll(absFileDir, 0750); err != nil {
		panic(err)
	}

	return rollingFileWriter{
		FileDirectory: absFileDir,
		FileName:      fileName,
		MaxSize:       DEFAULT_MAX_LOG_SIZE,
		MaxArchives:   DEFAULT_MAX_ARCHIVES,
		mu:            &sync.Mutex{},
	}
}

func (w rollingFileWriter) mainLogPath() string {
	return filepath.Join(w.FileDirectory, fmt.Sprintf("%s.log", w.FileName))
}

func (w rollingFileWriter) archivePath(index int) string {
	return filepath.Join(w.FileDirectory, fmt.Sprintf("%s-%d.log", w.FileName, index))
}

func (w rollingFileWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if stats, err := os.Stat(w.mainLogPath()); err == nil && stats.Size() > 0 && stats.Size()+int64(len(b)) > w.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	mainLogFile, err := os.OpenFile(w.mainLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer mainLogFile.Close()

	return mainLogFile.Write(b)
}

// archiveIndices returns the index of every archived log, highest first
func (w rollingFileWriter) archiveIndices() ([]int, error) {
	matches, err := filepath.Glob(filepath.Join(w.FileDirectory, w.FileName+"-*.log"))
	if err != nil {
		return nil, err
	}

	indices := lo.FilterMap(matches, func(match string, _ int) (int, bool) {
		return getLogIndex(w.FileName, match)
	})
	slices.Sort(indices)
	slices.Reverse(indices)

	return indices, nil
}

func (w rollingFileWriter) rotate() error {
	indices, err := w.archiveIndices()
	if err != nil {
		return err
	}

	// highest first so a rename never lands on a file that hasn't been moved yet
	for _, index := range indices {
		if index >= w.MaxArchives {
			if err := os.Remove(w.archivePath(index)); err != nil {
				return err
			}
			continue
		}

		if err := os.Rename(w.archivePath(index), w.archivePath(index+1)); err != nil {
			return err
		}
	}

	if w.MaxArchives <= 0 {
		return os.Remove(w.mainLogPath())
	}

	return os.Rename(w.mainLogPath(), w.archivePath(1))
}

// getLogIndex pulls N out of <base>-N.log. Files that don't match are ignored.
func getLogIndex(baseFileName string, filePath string) (int, bool) {
	fileName, _ := strings.CutSuffix(filepath.Base(filePath), ".log")
	indexStr, ok := strings.CutPrefix(fileName, baseFileName+"-")
	if !ok {
		return 0, false
	}

	index, err := strconv.Atoi(indexStr)
	if err != nil || index <= 0 {
		return 0, false
	}

	return index, true
}
