package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// IndexStrategy selects how the line index follows a splice.
type IndexStrategy uint8

const (
	// IndexIncremental shifts existing line starts and rescans only the
	// spliced region.
	IndexIncremental IndexStrategy = iota
	// IndexRebuild rescans the whole text after every splice.
	IndexRebuild
)

// String returns the configuration name of the strategy.
func (s IndexStrategy) String() string {
	if s == IndexRebuild {
		return "rebuild"
	}
	return "incremental"
}

// ParseIndexStrategy converts a configuration name to a strategy.
func ParseIndexStrategy(name string) (IndexStrategy, bool) {
	switch name {
	case "", "incremental":
		return IndexIncremental, true
	case "rebuild":
		return IndexRebuild, true
	}
	return IndexIncremental, false
}

// WithIndexStrategy sets how the line index is maintained.
func WithIndexStrategy(s IndexStrategy) Option {
	return func(b *Buffer) {
		b.strategy = s
	}
}

// WithChangeHook registers fn to be called after every mutation,
// including Load and Clear.
func WithChangeHook(fn func(Change)) Option {
	return func(b *Buffer) {
		b.onChange = fn
	}
}

// LineEnding specifies a line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Name returns a short name for the line ending.
func (le LineEnding) Name() string {
	switch le {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// LineEndingCounts holds the number of each terminator style in a text.
type LineEndingCounts struct {
	LF   int
	CRLF int
	CR   int
}

// Total returns the number of terminators of any style.
func (c LineEndingCounts) Total() int {
	return c.LF + c.CRLF + c.CR
}

// Mixed reports whether more than one style occurs.
func (c LineEndingCounts) Mixed() bool {
	styles := 0
	for _, n := range []int{c.LF, c.CRLF, c.CR} {
		if n > 0 {
			styles++
		}
	}
	return styles > 1
}

// CountLineEndings counts terminators using the same classification as
// the line index.
func CountLineEndings(text string) LineEndingCounts {
	var c LineEndingCounts

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			c.CRLF++
			i += 2
		} else if text[i] == '\r' {
			c.CR++
			i++
		} else if text[i] == '\n' {
			c.LF++
			i++
		} else {
			i++
		}
	}
	return c
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	c := CountLineEndings(text)

	if c.CRLF > 0 && c.CRLF >= c.LF && c.CRLF >= c.CR {
		return LineEndingCRLF
	}
	if c.CR > 0 && c.CR >= c.LF && c.CR >= c.CRLF {
		return LineEndingCR
	}
	return LineEndingLF
}
