// Package capture reads and writes RMC captures: one hex-encoded message per
// line, optionally snappy-compressed as a whole when the file ends in ".sz".
package capture

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/golang/snappy"
)

const maxLine = 2*8*1024*1024 + 1024

// Record is one message and the line it came from.
type Record struct {
	Source string
	Line   int
	Raw    []byte
}

// Read parses r. Blank lines and lines starting with '#' are skipped and
// whitespace inside a line is ignored.
func Read(r io.Reader, source string) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	var out []Record
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		raw, err := hex.DecodeString(stripSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, line, err)
		}
		out = append(out, Record{Source: source, Line: line, Raw: raw})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return out, nil
}

// Open reads a capture file, decompressing ".sz" files first.
func Open(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture open failed (%s): %w", path, err)
	}
	if compressed(path) {
		if data, err = snappy.Decode(nil, data); err != nil {
			return nil, fmt.Errorf("capture decompress failed (%s): %w", path, err)
		}
	}
	return Read(bytes.NewReader(data), path)
}

// Write encodes msgs one per line.
func Write(w io.Writer, msgs [][]byte) error {
	bw := bufio.NewWriter(w)
	for _, msg := range msgs {
		if _, err := bw.WriteString(hex.EncodeToString(msg)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes msgs to path, compressing when path ends in ".sz".
func WriteFile(path string, msgs [][]byte) error {
	var buf bytes.Buffer
	if err := Write(&buf, msgs); err != nil {
		return err
	}
	data := buf.Bytes()
	if compressed(path) {
		data = snappy.Encode(nil, data)
	}
	return os.WriteFile(path, data, 0o644)
}

func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".sz")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
