package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// LoadFailedColumn is the single column of the placeholder table returned when
// a file cannot be loaded at all.
const LoadFailedColumn = "⚠ data could not be loaded"

type candidate struct {
	name string
	enc  encoding.Encoding
}

// candidates are tried in order; the first that decodes cleanly wins.
var candidates = []candidate{
	{name: "utf-8-sig", enc: unicode.UTF8BOM},
	{name: "utf-8", enc: unicode.UTF8},
	{name: "gb18030", enc: simplifiedchinese.GB18030},
	{name: "latin-1", enc: charmap.ISO8859_1},
}

var errNoHeader = errors.New("file has no header row")

// Loader reads delimited text files, recovering from every failure with an
// empty placeholder table.
type Loader struct {
	Comma  rune
	logger *zap.Logger
}

// NewLoader builds a comma-separated loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Comma: ',', logger: logger}
}

// LoadFile reads path. It never fails: a missing or unreadable file yields
// Failed(err).
func (l *Loader) LoadFile(path string) Table {
	raw, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn("table file unavailable", zap.String("path", path), zap.Error(err))
		return Failed(err)
	}
	t := l.Parse(raw)
	if t.Warning == "" {
		l.logger.Info("table loaded", zap.String("path", path), zap.Int("rows", len(t.Rows)))
	}
	return t
}

// Parse decodes raw with the first encoding that fits and parses it.
func (l *Loader) Parse(raw []byte) Table {
	var lastErr error
	for _, c := range candidates {
		text, err := decode(c.enc, raw)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", c.name, err)
			continue
		}

		t, skipped, err := l.parseText(text)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", c.name, err)
			continue
		}
		if skipped > 0 {
			l.logger.Warn("skipped malformed rows", zap.String("encoding", c.name), zap.Int("skipped", skipped))
		}
		l.logger.Debug("table decoded", zap.String("encoding", c.name))
		return t
	}

	l.logger.Warn("table could not be decoded", zap.Error(lastErr))
	return Failed(lastErr)
}

// Failed returns the placeholder table for a load failure.
func Failed(err error) Table {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Table{
		Columns: []string{LoadFailedColumn},
		Warning: "data load failed: " + msg,
	}
}

func decode(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) || bytes.ContainsRune(out, utf8.RuneError) {
		return "", errors.New("invalid byte sequence")
	}
	return string(out), nil
}

func (l *Loader) parseText(text string) (Table, int, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = l.Comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, 0, errNoHeader
		}
		return Table{}, 0, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := Table{Columns: header}
	skipped := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return Table{}, skipped, fmt.Errorf("read row: %w", err)
		}
		if len(record) != len(header) || blank(record) {
			skipped++
			continue
		}
		t.Rows = append(t.Rows, record)
	}
	return t, skipped, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
