package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Custom errors for file operations
var (
	ErrFileNotFound   = errors.New("input file not found")
	ErrFilePermission = errors.New("permission denied reading input file")
	ErrFileEmpty      = errors.New("input file is empty or contains no valid URLs")
	ErrReadingFile    = errors.New("error reading input file")
)

// ReadURLsFromFile reads one URL per line and returns the valid ones as URLInfo.
// Blank lines and lines starting with '#' are skipped; invalid URLs are logged
// and skipped.
func ReadURLsFromFile(filePath string, engine *Engine, logger zerolog.Logger) ([]*URLInfo, error) {
	fileLogger := logger.With().Str("filePath", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		fileLogger.Error().Err(err).Msg("Input file not found")
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error checking file stat")
		return nil, fmt.Errorf("error checking file %s: %w", filePath, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Input path is a directory, not a file")
		return nil, fmt.Errorf("input path is a directory, not a file: %s", filePath)
	}
	if info.Size() == 0 {
		fileLogger.Warn().Msg("Input file is empty (0 bytes)")
		return nil, fmt.Errorf("%w: %s (size is 0)", ErrFileEmpty, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			fileLogger.Error().Err(err).Msg("Permission denied reading input file")
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		fileLogger.Error().Err(err).Msg("Error opening input file")
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	urls, err := ReadURLs(file, engine, fileLogger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, filePath)
	}
	return urls, nil
}

// ReadURLs reads URLs line by line from r. See ReadURLsFromFile.
func ReadURLs(r io.Reader, engine *Engine, logger zerolog.Logger) ([]*URLInfo, error) {
	if engine == nil {
		engine = DefaultEngine()
	}

	var urls []*URLInfo
	scanner := bufio.NewScanner(r)

	totalLinesRead := 0
	skippedCount := 0

	for scanner.Scan() {
		totalLinesRead++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u := engine.Create(line, "")
		if !u.IsValid() {
			logger.Warn().
				Int("lineNumber", totalLinesRead).
				Str("originalURL", line).
				Str("kind", u.ErrorKind().String()).
				Err(u.Err()).
				Msg("Invalid URL, skipping")
			skippedCount++
			continue
		}
		urls = append(urls, u)
	}

	if scanErr := scanner.Err(); scanErr != nil {
		logger.Error().Err(scanErr).Msg("Error during scanning of input")
		return nil, fmt.Errorf("%w (scan error: %v)", ErrReadingFile, scanErr)
	}

	logger.Info().
		Int("totalLinesRead", totalLinesRead).
		Int("validCount", len(urls)).
		Int("skippedCount", skippedCount).
		Msg("Finished reading URLs")

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w (no valid URLs found after processing %d lines)", ErrFileEmpty, totalLinesRead)
	}
	return urls, nil
}
