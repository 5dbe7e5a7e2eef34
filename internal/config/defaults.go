package config

const (
	defaultJournalDir           = "~/.local/share/reorg/journal"
	defaultLogDir               = "~/.local/share/reorg/logs"
	defaultMaxWorkers           = 8
	defaultProgressStep         = 5
	defaultProgressIntervalMS   = 150
	defaultSimilarityThreshold  = 0.6
	defaultMaxNameLength        = 120
	defaultMaxDescriptionLength = 80
	defaultHistoryLimit         = 20
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

func defaultArchiveExtensions() []string {
	return []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz", ".iso"}
}

func defaultMediaExtensions() []string {
	return []string{".mkv", ".mp4", ".avi", ".mov", ".wmv", ".flv", ".ts", ".m2ts", ".webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			JournalDir: defaultJournalDir,
			LogDir:     defaultLogDir,
		},
		Execute: Execute{
			MaxWorkers:         defaultMaxWorkers,
			ProgressStep:       defaultProgressStep,
			ProgressIntervalMS: defaultProgressIntervalMS,
		},
		Dissolve: Dissolve{
			SimilarityThreshold: defaultSimilarityThreshold,
			ArchiveExtensions:   defaultArchiveExtensions(),
			MediaExtensions:     defaultMediaExtensions(),
		},
		Rename: Rename{
			MaxNameLength:        defaultMaxNameLength,
			MaxDescriptionLength: defaultMaxDescriptionLength,
		},
		History: History{
			Limit: defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
