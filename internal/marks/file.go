package marks

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FileSource reads marked dates from a local text file
type FileSource struct {
	filePath string
	loc      *time.Location
	logger   *zap.Logger
}

// NewFileSource creates a new FileSource instance
func NewFileSource(filePath string, loc *time.Location, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		loc:      loc,
		logger:   logger,
	}
}

// Load reads the file. Invalid lines are logged and skipped.
func (fs *FileSource) Load() ([]time.Time, error) {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open marks file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var dates []time.Time
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD[..YYYY-MM-DD] [note]
		// Example: 2026-10-05..2026-10-07 vacation
		fields := strings.Fields(line)
		parsed, err := parseItem(fields[0], fs.loc)
		if err != nil {
			fs.logger.Warn("Invalid line in marks file",
				zap.String("file", fs.filePath),
				zap.Int("line", lineNo),
				zap.Error(err))
			continue
		}

		if len(fields) > 1 {
			fs.logger.Debug("Marked",
				zap.String("dates", fields[0]),
				zap.String("note", strings.Join(fields[1:], " ")))
		}
		dates = append(dates, parsed...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read marks file: %w", err)
	}

	fs.logger.Info("Marks file loaded",
		zap.String("file", fs.filePath),
		zap.Int("dates", len(dates)))

	return dates, nil
}
