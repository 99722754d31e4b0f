package fileio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV auto-detects the encoding (UTF-8 or Windows-1251) and the delimiter
// (comma or semicolon, the latter is what Russian Excel exports).
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	if isWindows1251(peek) {
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	}

	cr := csv.NewReader(bufio.NewReader(dec))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffComma(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func isWindows1251(peek []byte) bool {
	if len(peek) == 0 {
		return false
	}
	det, err := chardet.NewTextDetector().DetectBest(peek)
	if err != nil || det == nil {
		return false
	}
	switch strings.ToLower(det.Charset) {
	case "windows-1251", "cp1251":
		return true
	}
	return false
}

// в первой строке ';' больше, чем ',', значит разделитель ';'
func sniffComma(peek []byte) rune {
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
