// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

type Option func(r *Renderer) error

func WithDelimiter(ch byte) Option {
	return func(r *Renderer) error {
		r.delimiter = ch
		return nil
	}
}

// WithCRLF terminates rows with CR+LF instead of bare LF.
func WithCRLF(flag bool) Option {
	return func(r *Renderer) error {
		if flag {
			r.eol = "\r\n"
		} else {
			r.eol = "\n"
		}
		return nil
	}
}

// WithQuoteAll quotes every field, not just the ones that need it.
func WithQuoteAll(flag bool) Option {
	return func(r *Renderer) error {
		r.quoteAll = flag
		return nil
	}
}

// WithExcludeColumns adds the named columns to the exclude set.
func WithExcludeColumns(columns ...string) Option {
	return func(r *Renderer) error {
		for _, column := range columns {
			r.excludeColumns[column] = true
			delete(r.includeColumns, column)
		}
		return nil
	}
}

// WithIncludeColumns adds the named columns to the include set.
// If this set is not empty, only columns in the set are rendered.
func WithIncludeColumns(columns ...string) Option {
	return func(r *Renderer) error {
		for _, column := range columns {
			r.includeColumns[column] = true
			delete(r.excludeColumns, column)
		}
		return nil
	}
}
