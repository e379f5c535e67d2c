package export

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed rules_default.yaml
var defaultRulesYAML []byte

// RulesConfig is the YAML shape of an export rules file.
type RulesConfig struct {
	JunkTitles     []string          `yaml:"junk_titles"`
	Relevant       []string          `yaml:"relevant"`
	Exclude        []string          `yaml:"exclude"`
	Emoji          []EmojiRule       `yaml:"emoji"`
	SourceBaseURLs map[string]string `yaml:"source_base_urls"`
}

// EmojiRule maps a keyword pattern to a display glyph.
type EmojiRule struct {
	Pattern string `yaml:"pattern"`
	Emoji   string `yaml:"emoji"`
}

// Rules is a compiled rule set.
type Rules struct {
	junkTitles     []*regexp.Regexp
	relevant       []*regexp.Regexp
	exclude        []*regexp.Regexp
	emoji          []compiledEmoji
	sourceBaseURLs map[string]string
}

type compiledEmoji struct {
	re    *regexp.Regexp
	emoji string
}

// LoadRules reads and compiles a rules file. An empty path selects the
// embedded default rule set.
func LoadRules(path string) (*Rules, error) {
	data := defaultRulesYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
		data = b
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	return Compile(cfg)
}

// Compile turns a rules config into matchers. Patterns are matched
// case-insensitively.
func Compile(cfg RulesConfig) (*Rules, error) {
	r := &Rules{sourceBaseURLs: cfg.SourceBaseURLs}

	var err error
	if r.junkTitles, err = compileAll(cfg.JunkTitles); err != nil {
		return nil, fmt.Errorf("junk_titles: %w", err)
	}
	if r.relevant, err = compileAll(cfg.Relevant); err != nil {
		return nil, fmt.Errorf("relevant: %w", err)
	}
	if r.exclude, err = compileAll(cfg.Exclude); err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	for _, e := range cfg.Emoji {
		re, err := regexp.Compile("(?i)" + e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("emoji pattern %q: %w", e.Pattern, err)
		}
		r.emoji = append(r.emoji, compiledEmoji{re: re, emoji: e.Emoji})
	}
	return r, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// DefaultRulesYAML returns the embedded rule set source, for the
// `rules` subcommand.
func DefaultRulesYAML() []byte {
	return defaultRulesYAML
}
