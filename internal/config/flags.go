package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bethropolis/tide-indent/internal/logger"
)

// Flags holds values parsed from command-line flags. Only flags that were
// actually set override the configuration.
type Flags struct {
	set *pflag.FlagSet

	ConfigFilePath *string
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	TabWidth       *int
	IndentWidth    *int
	UseTabs        *bool
	ScanLimit      *int
	Classifier     *string
	GrammarDirs    *[]string
}

// DefineFlags registers the flags on fs, typically a cobra command's
// persistent flag set.
func (f *Flags) DefineFlags(fs *pflag.FlagSet) {
	f.set = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.LogLevel = fs.String("log-level", "", "log level (debug, info, warn, error)")
	f.LogFilePath = fs.String("log-file", "", "log file path, '-' for stderr")
	f.EnableTags = fs.String("log-tags", "", "comma-separated list of log tags to enable")
	f.DisableTags = fs.String("log-disable-tags", "", "comma-separated list of log tags to disable")
	f.TabWidth = fs.Int("tab-width", 0, "columns per tab stop")
	f.IndentWidth = fs.Int("indent-width", 0, "columns per indent level (default: tab width)")
	f.UseTabs = fs.Bool("use-tabs", false, "indent with tabs where possible")
	f.ScanLimit = fs.Int("scan-limit", 0, "maximum lines a backward scan may cover (default: per grammar)")
	f.Classifier = fs.String("classifier", "", "code/string/comment classifier: auto, lexical or treesitter")
	f.GrammarDirs = fs.StringSlice("grammar-dir", nil, "extra directory of grammar descriptors (repeatable)")
}

// ApplyOverrides updates cfg with the flags that were set. Cobra parses
// persistent flags through the subcommand's merged set, which shares the
// *pflag.Flag values, so Changed is checked instead of using Visit.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.set == nil {
		return
	}
	f.set.VisitAll(func(fl *pflag.Flag) {
		if !fl.Changed {
			return
		}
		logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value.String())
		switch fl.Name {
		case "log-level":
			cfg.Logger.LogLevel = *f.LogLevel
		case "log-file":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "tab-width":
			if *f.TabWidth > 0 {
				cfg.Indent.TabWidth = *f.TabWidth
			}
		case "indent-width":
			if *f.IndentWidth >= 0 {
				cfg.Indent.IndentWidth = *f.IndentWidth
			}
		case "use-tabs":
			cfg.Indent.UseTabs = *f.UseTabs
		case "scan-limit":
			if *f.ScanLimit >= 0 {
				cfg.Indent.ScanLimit = *f.ScanLimit
			}
		case "classifier":
			cfg.Indent.Classifier = *f.Classifier
		case "grammar-dir":
			cfg.Indent.GrammarDirs = append(cfg.Indent.GrammarDirs, *f.GrammarDirs...)
		}
	})
}

// ConfigPath returns the --config value, or "" when unset.
func (f *Flags) ConfigPath() string {
	if f.ConfigFilePath == nil {
		return ""
	}
	return *f.ConfigFilePath
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
