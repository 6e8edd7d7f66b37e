package files

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xuri/excelize/v2"

	apperrors "surveycli/internal/errors"
	"surveycli/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the table stored at path. Unknown extensions are
// UNSUPPORTED_FORMAT.
func Load(path string) (*table.Table, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewMissingSourceFileError(path)
	}

	var t *table.Table
	switch format {
	case FormatCSV:
		t, err = loadCSV(path)
	case FormatXLSX:
		t, err = loadXLSX(path)
	case FormatParquet:
		t, err = loadParquet(path)
	case FormatGob:
		t, err = loadGob(path)
	case FormatDTA:
		t, err = loadDTA(path)
	}
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to load %s", path), err)
	}
	return t, nil
}

func loadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return fromGrid(header, rows)
}

// loadXLSX reads the first sheet of a workbook
func loadXLSX(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	return fromGrid(rows[0], rows[1:])
}

func loadGob(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap table.Snapshot
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	t, err := table.FromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return t.ResetIndex(), nil
}

// loadParquet reads every column of a parquet file. Files written by this
// module carry a descriptor restoring kinds, category sets and the index;
// other files are typed from their physical column types.
func loadParquet(path string) (*table.Table, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetColumnReader(fr, 4)
	if err != nil {
		return nil, fmt.Errorf("open parquet reader: %w", err)
	}
	defer pr.ReadStop()

	desc, hasDesc, err := parquetDescriptor(pr)
	if err != nil {
		return nil, err
	}
	rows := pr.GetNumRows()
	names := leafNames(pr)

	cols := make([]*table.Column, 0, len(names))
	for i, name := range names {
		values, _, _, err := pr.ReadColumnByIndex(int64(i), rows)
		if err != nil {
			return nil, fmt.Errorf("read column %s: %w", name, err)
		}
		cd, ok := desc.Lookup(name)
		if !ok {
			cd = table.ColumnDescriptor{Name: name, Kind: physicalKind(values)}
			if hasDesc && len(desc.Index) == 2 && name == desc.Index[1] {
				cd.Kind = table.KindString
			}
		}
		col, err := decodeColumn(cd, values, int(rows))
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return table.New(cols...)
}

func parquetDescriptor(pr *reader.ParquetReader) (table.Descriptor, bool, error) {
	var desc table.Descriptor
	if pr.Footer == nil {
		return desc, false, nil
	}
	for _, kv := range pr.Footer.KeyValueMetadata {
		if kv.Key != DescriptorKey || kv.Value == nil {
			continue
		}
		if err := json.Unmarshal([]byte(*kv.Value), &desc); err != nil {
			return desc, false, fmt.Errorf("decode table descriptor: %w", err)
		}
		return desc, true, nil
	}
	return desc, false, nil
}

// leafNames returns the external names of the value columns in file order
func leafNames(pr *reader.ParquetReader) []string {
	sh := pr.SchemaHandler
	names := make([]string, len(sh.ValueColumns))
	for i, inPath := range sh.ValueColumns {
		exPath := sh.InPathToExPath[inPath]
		if exPath == "" {
			exPath = inPath
		}
		parts := strings.Split(exPath, common.PAR_GO_PATH_DELIMITER)
		names[i] = parts[len(parts)-1]
	}
	return names
}

func physicalKind(values []any) table.Kind {
	for _, v := range values {
		switch v.(type) {
		case int32, int64:
			return table.KindInt
		case float32, float64:
			return table.KindFloat
		case string:
			return table.KindCategory
		}
	}
	return table.KindFloat
}

// decodeColumn converts parquet values into the representation of cd.Kind
func decodeColumn(cd table.ColumnDescriptor, values []any, rows int) (*table.Column, error) {
	col := &table.Column{
		Name:       cd.Name,
		Kind:       cd.Kind,
		Categories: cd.Categories,
		Ordered:    cd.Ordered,
		Width:      cd.Width,
		Unsigned:   cd.Unsigned,
		Values:     make([]any, rows),
	}
	for i := 0; i < rows && i < len(values); i++ {
		v := values[i]
		if v == nil {
			continue
		}
		switch cd.Kind {
		case table.KindInt:
			n, ok := table.Int(v)
			if !ok {
				return nil, fmt.Errorf("column %s: %v is not an integer", cd.Name, v)
			}
			col.Values[i] = n
		case table.KindFloat:
			f, ok := table.Float(v)
			if !ok {
				return nil, fmt.Errorf("column %s: %v is not a number", cd.Name, v)
			}
			col.Values[i] = f
		default:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("column %s: %v is not text", cd.Name, v)
			}
			parsed, err := table.Parse(cd.Kind, s)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", cd.Name, err)
			}
			col.Values[i] = parsed
		}
	}
	if cd.Kind == table.KindCategory && len(col.Categories) == 0 {
		seen := make(map[string]struct{})
		for _, v := range col.Values {
			if s, ok := v.(string); ok {
				if _, dup := seen[s]; !dup {
					seen[s] = struct{}{}
					col.Categories = append(col.Categories, s)
				}
			}
		}
	}
	return col, nil
}
