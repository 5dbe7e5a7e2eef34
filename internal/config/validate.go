package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateExecute(); err != nil {
		return err
	}
	if err := c.validateDissolve(); err != nil {
		return err
	}
	if err := c.validateRename(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExecute() error {
	if c.Execute.MaxWorkers < 1 {
		return errors.New("execute.max_workers must be positive")
	}
	if c.Execute.ProgressStep < 1 || c.Execute.ProgressStep > 100 {
		return errors.New("execute.progress_step must be between 1 and 100")
	}
	if c.Execute.ProgressIntervalMS < 1 {
		return errors.New("execute.progress_interval_ms must be positive")
	}
	return nil
}

func (c *Config) validateDissolve() error {
	if c.Dissolve.SimilarityThreshold < 0 || c.Dissolve.SimilarityThreshold > 1 {
		return errors.New("dissolve.similarity_threshold must be between 0 and 1")
	}
	if len(c.Dissolve.ArchiveExtensions) == 0 {
		return errors.New("dissolve.archive_extensions must include at least one extension")
	}
	if len(c.Dissolve.MediaExtensions) == 0 {
		return errors.New("dissolve.media_extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateRename() error {
	if c.Rename.MaxNameLength < 8 {
		return errors.New("rename.max_name_length must be at least 8")
	}
	if c.Rename.MaxDescriptionLength < 1 {
		return errors.New("rename.max_description_length must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
