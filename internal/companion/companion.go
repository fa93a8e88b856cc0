// Package companion copies auxiliary documents (instructions, policies) into
// every group folder and personalises Word documents for the group.
package companion

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sheet-split/internal/config"
	"sheet-split/internal/logger"
	"sheet-split/internal/model"
	"sheet-split/internal/utils"

	"github.com/nguyenthenguyen/docx"
)

// Copier holds the companion files resolved once per run
type Copier struct {
	files  []string
	fill   bool
	source string
	now    func() time.Time
}

// New lists the companion files for a run over sourcePath.
// The companion directory defaults to the source's directory; the source itself is never a companion.
func New(cfg *config.Config, sourcePath string) (*Copier, error) {
	dir := cfg.Companions.Dir
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list companion directory: %w", err)
	}

	absSource, _ := filepath.Abs(sourcePath)
	var files []string
	for _, e := range entries {
		if e.IsDir() || !cfg.IsCompanion(e.Name()) {
			continue
		}
		path, _ := filepath.Abs(filepath.Join(dir, e.Name()))
		if path == absSource {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)

	logger.Debug("Companion documents in %s: %d", dir, len(files))
	return &Copier{
		files:  files,
		fill:   cfg.Companions.FillPlaceholders,
		source: sourcePath,
		now:    time.Now,
	}, nil
}

// Files returns the companion files that will be copied
func (c *Copier) Files() []string {
	return c.files
}

// Copy places every companion file into the artifact's folder and returns the written paths.
// A failing file does not stop the others; the first error is returned.
func (c *Copier) Copy(a *model.Artifact) ([]string, error) {
	var copied []string
	var firstErr error

	for _, src := range c.files {
		dst := filepath.Join(a.Dir, filepath.Base(src))

		var err error
		if c.fill && strings.EqualFold(filepath.Ext(src), ".docx") {
			err = fillDocx(src, dst, c.fields(a))
		} else {
			err = utils.CopyFile(src, dst)
		}

		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", filepath.Base(src), err)
			}
			continue
		}
		copied = append(copied, dst)
	}
	return copied, firstErr
}

// fields returns the placeholder values for one group
func (c *Copier) fields(a *model.Artifact) map[string]string {
	return map[string]string{
		"{{Reviewer}}":   a.Group.Key,
		"{{Email}}":      a.Group.Email,
		"{{Date}}":       c.now().Format("2006-01-02"),
		"{{SourceFile}}": filepath.Base(c.source),
	}
}

// fillDocx writes src to dst with every placeholder replaced.
// Placeholders must sit in a single text run to be found.
func fillDocx(src, dst string, fields map[string]string) error {
	r, err := docx.ReadDocxFile(src)
	if err != nil {
		return fmt.Errorf("failed to read docx: %w", err)
	}
	defer r.Close()

	doc := r.Editable()
	for placeholder, value := range fields {
		if err := doc.Replace(placeholder, value, -1); err != nil {
			return fmt.Errorf("failed to replace %s: %w", placeholder, err)
		}
	}

	if err := doc.WriteToFile(dst); err != nil {
		return fmt.Errorf("failed to write docx: %w", err)
	}
	return nil
}
