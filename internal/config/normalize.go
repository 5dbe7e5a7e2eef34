package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExecute()
	c.normalizeDissolve()
	c.normalizeRename()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.JournalDir) == "" {
		c.Paths.JournalDir = defaultJournalDir
	}
	if c.Paths.JournalDir, err = expandPath(c.Paths.JournalDir); err != nil {
		return fmt.Errorf("paths.journal_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeExecute() {
	if c.Execute.MaxWorkers <= 0 {
		c.Execute.MaxWorkers = defaultMaxWorkers
	}
	if c.Execute.ProgressStep <= 0 {
		c.Execute.ProgressStep = defaultProgressStep
	}
	if c.Execute.ProgressIntervalMS <= 0 {
		c.Execute.ProgressIntervalMS = defaultProgressIntervalMS
	}
}

func (c *Config) normalizeDissolve() {
	if len(c.Dissolve.ArchiveExtensions) == 0 {
		c.Dissolve.ArchiveExtensions = defaultArchiveExtensions()
	}
	if len(c.Dissolve.MediaExtensions) == 0 {
		c.Dissolve.MediaExtensions = defaultMediaExtensions()
	}
	c.Dissolve.ArchiveExtensions = normalizeExtensions(c.Dissolve.ArchiveExtensions)
	c.Dissolve.MediaExtensions = normalizeExtensions(c.Dissolve.MediaExtensions)
}

func (c *Config) normalizeRename() {
	if c.Rename.MaxNameLength <= 0 {
		c.Rename.MaxNameLength = defaultMaxNameLength
	}
	if c.Rename.MaxDescriptionLength <= 0 {
		c.Rename.MaxDescriptionLength = defaultMaxDescriptionLength
	}
}

func (c *Config) normalizeHistory() {
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
