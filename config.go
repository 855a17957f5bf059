// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt

// ParseConfig controls how Tokenize splits text into rows and fields.
// The zero value is not useful; start from DefaultConfig or NewConfig.
type ParseConfig struct {
	// Delimiter separates fields. Default ','.
	Delimiter byte

	// Comment marks comment lines. A line whose first character (or whose
	// first field, after trimming) begins with this byte is dropped.
	// Default '#'.
	Comment byte

	// HasHeader makes the first row supply field names for Records.
	// Default true.
	HasHeader bool

	// Trim strips leading and trailing whitespace from unquoted fields.
	// Quoted fields are never trimmed. Default true.
	Trim bool
}

// DefaultConfig returns the default dialect: comma-delimited, '#' comments,
// header row present, unquoted fields trimmed.
func DefaultConfig() ParseConfig {
	return ParseConfig{
		Delimiter: ',',
		Comment:   '#',
		HasHeader: true,
		Trim:      true,
	}
}

type Option func(c *ParseConfig) error

// NewConfig builds a ParseConfig from the defaults plus options.
func NewConfig(options ...Option) (ParseConfig, error) {
	cfg := DefaultConfig()
	for _, option := range options {
		if err := option(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func WithDelimiter(ch byte) Option {
	return func(c *ParseConfig) error {
		c.Delimiter = ch
		return nil
	}
}

func WithComment(ch byte) Option {
	return func(c *ParseConfig) error {
		c.Comment = ch
		return nil
	}
}

// WithoutHeader treats every row as data; Records synthesizes
// field1..fieldN names.
func WithoutHeader() Option {
	return func(c *ParseConfig) error {
		c.HasHeader = false
		return nil
	}
}

// WithoutTrim preserves leading and trailing whitespace on unquoted fields.
func WithoutTrim() Option {
	return func(c *ParseConfig) error {
		c.Trim = false
		return nil
	}
}
