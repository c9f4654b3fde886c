package codegen

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/teranos/kirgen/errors"
)

// CheckResult holds the result of comparing generated output to files on disk
type CheckResult struct {
	UpToDate    bool
	Differences []string // relative paths whose content differs
	Missing     []string // relative paths generated but absent on disk
}

// CompareOutputs compares every generated file under generatedDir with the
// file at the same relative path under existingDir. Lines of d's generated
// header are ignored so banner changes alone do not count as drift.
func CompareOutputs(fs afero.Fs, d Dialect, generatedDir, existingDir string) (*CheckResult, error) {
	if _, err := fs.Stat(generatedDir); err != nil {
		return nil, errors.Wrapf(err, "stat %s", generatedDir)
	}

	ignore := make(map[string]bool)
	for _, line := range d.Header() {
		ignore[strings.TrimSpace(line)] = true
	}

	result := &CheckResult{}
	err := afero.Walk(fs, generatedDir, func(genPath string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		if filepath.Ext(genPath) != "."+d.FileExtension() {
			return nil
		}

		relPath, err := filepath.Rel(generatedDir, genPath)
		if err != nil {
			return err
		}
		existingPath := filepath.Join(existingDir, relPath)

		if _, err := fs.Stat(existingPath); err != nil {
			result.Missing = append(result.Missing, relPath)
			return nil
		}

		different, err := filesAreDifferent(fs, genPath, existingPath, ignore)
		if err != nil {
			result.Differences = append(result.Differences, relPath+" (error: "+err.Error()+")")
		} else if different {
			result.Differences = append(result.Differences, relPath)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", generatedDir)
	}

	sort.Strings(result.Differences)
	sort.Strings(result.Missing)
	result.UpToDate = len(result.Differences) == 0 && len(result.Missing) == 0
	return result, nil
}

func filesAreDifferent(fs afero.Fs, file1, file2 string, ignore map[string]bool) (bool, error) {
	content1, err := afero.ReadFile(fs, file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := afero.ReadFile(fs, file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}

	if bytes.Equal(content1, content2) {
		return false, nil
	}
	return filterHeaderLines(content1, ignore) != filterHeaderLines(content2, ignore), nil
}

// filterHeaderLines drops generated-banner lines.
// Returns empty string if the scanner fails so the comparison reports a difference.
func filterHeaderLines(content []byte, ignore map[string]bool) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if ignore[strings.TrimSpace(line)] {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}
