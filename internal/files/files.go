/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package files

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jerry-enebeli/caixa/model"
	"github.com/sirupsen/logrus"
)

const (
	TypeCSV  = "text/csv"
	TypeJSON = "application/json"

	// DefaultSection holds rows of files that carry a single table.
	DefaultSection = ""
)

// ErrUnsupportedType is returned for uploads that are neither CSV nor JSON.
var ErrUnsupportedType = errors.New("unsupported file type")

// RawRow is one spreadsheet row keyed by its original column header.
type RawRow map[string]string

// Upload is the parsed content of one uploaded file. Spreadsheets exported
// as JSON may carry several named sheets; CSV files carry one.
type Upload struct {
	ID       string
	Filename string
	Type     string
	Sections map[string][]RawRow
}

// SectionNames returns the section names in a stable order.
func (u *Upload) SectionNames() []string {
	names := make([]string, 0, len(u.Sections))
	for name := range u.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rows returns the rows of the named section, falling back to the only
// section when the file has just one.
func (u *Upload) Rows(section string) []RawRow {
	if rows, ok := u.Sections[section]; ok {
		return rows
	}
	if len(u.Sections) == 1 {
		for _, rows := range u.Sections {
			return rows
		}
	}
	return nil
}

// ReadUpload spools reader to a temporary file, detects its type and parses
// it into rows.
func ReadUpload(ctx context.Context, reader io.Reader, filename string) (*Upload, error) {
	tempFile, err := createAndPopulateTempFile(filename, reader)
	if err != nil {
		return nil, err
	}
	defer cleanupTempFile(tempFile)

	fileType, err := detectFileTypeFromTempFile(tempFile, filename)
	if err != nil {
		return nil, err
	}

	upload := &Upload{
		ID:       model.GenerateUUIDWithSuffix("upload"),
		Filename: filepath.Base(filename),
		Type:     fileType,
	}

	switch fileType {
	case TypeCSV:
		rows, err := ProcessCSV(ctx, tempFile)
		if err != nil {
			return nil, err
		}
		upload.Sections = map[string][]RawRow{DefaultSection: rows}
	case TypeJSON:
		sections, err := ProcessJSON(tempFile)
		if err != nil {
			return nil, err
		}
		upload.Sections = sections
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}

	logrus.WithFields(logrus.Fields{
		"upload_id": upload.ID,
		"file":      upload.Filename,
		"type":      fileType,
		"sections":  len(upload.Sections),
	}).Debug("upload parsed")
	return upload, nil
}

func createAndPopulateTempFile(filename string, reader io.Reader) (*os.File, error) {
	tempFile, err := createTempFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error creating temporary file: %w", err)
	}

	if _, err := io.Copy(tempFile, reader); err != nil {
		cleanupTempFile(tempFile)
		return nil, fmt.Errorf("error copying upload data: %w", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		cleanupTempFile(tempFile)
		return nil, fmt.Errorf("error seeking temporary file: %w", err)
	}
	return tempFile, nil
}

// detectFileTypeFromTempFile sniffs the first 512 bytes, which is all
// http.DetectContentType looks at.
func detectFileTypeFromTempFile(tempFile *os.File, filename string) (string, error) {
	header := make([]byte, 512)
	n, err := tempFile.Read(header)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("error reading file header: %w", err)
	}

	fileType := DetectFileType(header[:n], filename)

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("error seeking temporary file: %w", err)
	}
	return fileType, nil
}

func createTempFile(originalFilename string) (*os.File, error) {
	tempDir := filepath.Join(os.TempDir(), "caixa_uploads")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating temporary directory: %w", err)
	}

	prefix := fmt.Sprintf("%s_", filepath.Base(originalFilename))
	return os.CreateTemp(tempDir, prefix)
}

func cleanupTempFile(file *os.File) {
	if file == nil {
		return
	}
	filename := file.Name()
	file.Close()
	if err := os.Remove(filename); err != nil {
		logrus.WithError(err).Warnf("error removing temporary file %s", filename)
	}
}

// DetectFileType trusts the extension first and falls back to the content.
func DetectFileType(data []byte, filename string) string {
	if mimeType := DetectByExtension(filename); mimeType != "" {
		return mimeType
	}
	return DetectByContent(data)
}

// DetectByExtension maps .csv and .json to their canonical types and leaves
// everything else to the mime table.
func DetectByExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return TypeCSV
	case ".json":
		return TypeJSON
	case "":
		return ""
	}
	mimeType, _, _ := mime.ParseMediaType(mime.TypeByExtension(ext))
	return mimeType
}

func DetectByContent(data []byte) string {
	mimeType, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	switch mimeType {
	case "application/octet-stream", "text/plain":
		return AnalyzeTextContent(data)
	default:
		return mimeType
	}
}

// AnalyzeTextContent tells CSV from JSON for content sniffed as plain text.
func AnalyzeTextContent(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return TypeJSON
	}
	if LooksLikeCSV(data) {
		return TypeCSV
	}
	return "text/plain"
}

// LooksLikeCSV reports whether every non-empty line carries the same number
// of separators as the first one, for either comma or semicolon separators.
func LooksLikeCSV(data []byte) bool {
	return looksDelimited(data, ',') || looksDelimited(data, ';')
}

func looksDelimited(data []byte, sep byte) bool {
	lines := bytes.Split(data, []byte("\n"))
	if len(lines) < 2 {
		return false
	}
	fields := bytes.Count(lines[0], []byte{sep}) + 1
	// the last line may be cut by the 512 byte sniff window
	for _, line := range lines[1 : len(lines)-1] {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		if bytes.Count(line, []byte{sep})+1 != fields {
			return false
		}
	}
	return fields > 1
}

// detectDelimiter picks ';' when the header uses it more than ','. Brazilian
// spreadsheet exports use ';' because ',' is the decimal separator.
func detectDelimiter(header string) rune {
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}

// ProcessCSV reads a CSV file whose first line is the header row.
func ProcessCSV(ctx context.Context, reader io.Reader) ([]RawRow, error) {
	buffered := bufio.NewReader(reader)
	firstLine, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("error reading CSV headers: %w", err)
	}
	if i := bytes.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	// strip a UTF-8 byte order mark left by spreadsheet exports
	if bytes.HasPrefix(firstLine, []byte("\xef\xbb\xbf")) {
		_, _ = buffered.Discard(3)
		firstLine = firstLine[3:]
	}

	csvReader := csv.NewReader(buffered)
	csvReader.Comma = detectDelimiter(string(firstLine))
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV headers: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []RawRow
	rowNum := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", rowNum, err)
		}

		row := make(RawRow, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" || i >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value != "" {
				empty = false
			}
			row[header] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)

		if rowNum%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
	}
	return rows, nil
}

// ProcessJSON accepts either an array of row objects or an object mapping
// section names to arrays of row objects.
func ProcessJSON(reader io.Reader) (map[string][]RawRow, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding JSON upload: %w", err)
	}

	switch v := doc.(type) {
	case []interface{}:
		rows, err := jsonRows(v)
		if err != nil {
			return nil, err
		}
		return map[string][]RawRow{DefaultSection: rows}, nil
	case map[string]interface{}:
		sections := make(map[string][]RawRow, len(v))
		for name, value := range v {
			list, ok := value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("section %q is not a list of rows", name)
			}
			rows, err := jsonRows(list)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", name, err)
			}
			sections[name] = rows
		}
		return sections, nil
	default:
		return nil, errors.New("JSON upload must be a list of rows or an object of named lists")
	}
}

func jsonRows(list []interface{}) ([]RawRow, error) {
	rows := make([]RawRow, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("row %d is not an object", i+1)
		}
		row := make(RawRow, len(obj))
		for key, value := range obj {
			row[strings.TrimSpace(key)] = cellString(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
