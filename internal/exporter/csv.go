package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"surveycli/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// StreamWriter provides streaming CSV writing for large tables
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a CSV file at path and writes its header
func CreateStreamWriter(path string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// Write BOM for Excel compatibility
	if bom {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// writeCSV streams t row by row, index columns first
func writeCSV(t *table.Table, path string, bom bool) error {
	stream, err := CreateStreamWriter(path, header(t), bom)
	if err != nil {
		return err
	}
	cols := t.Columns()
	ix := t.Index()
	record := make([]string, 0, len(cols)+2)
	for i := 0; i < t.NumRows(); i++ {
		record = record[:0]
		if ix != nil {
			k := ix.Keys[i]
			record = append(record, formatInt(k.ID), k.Period)
		}
		for _, c := range cols {
			record = append(record, cellText(c.Values[i]))
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return stream.Close()
}

// header lists the index names followed by the data column names
func header(t *table.Table) []string {
	var names []string
	if ix := t.Index(); ix != nil {
		names = append(names, ix.Names[0], ix.Names[1])
	}
	return append(names, t.Names()...)
}
