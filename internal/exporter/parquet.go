package exporter

import (
	"encoding/json"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"surveycli/internal/files"
	"surveycli/internal/table"
)

// writeParquet writes t as a single parquet file. Rows go through the JSON
// writer; the table descriptor is stored in the footer metadata.
func writeParquet(t *table.Table, path string) error {
	schemaDef, err := parquetSchema(t)
	if err != nil {
		return err
	}
	desc, err := json.Marshal(table.Describe(t))
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	pw, err := writer.NewJSONWriter(schemaDef, fw, 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	descValue := string(desc)
	pw.Footer.KeyValueMetadata = append(pw.Footer.KeyValueMetadata,
		&parquet.KeyValue{Key: files.DescriptorKey, Value: &descValue})

	names := header(t)
	cols := t.Columns()
	ix := t.Index()
	row := make(map[string]any, len(names))
	for i := 0; i < t.NumRows(); i++ {
		if ix != nil {
			row[ix.Names[0]] = ix.Keys[i].ID
			row[ix.Names[1]] = ix.Keys[i].Period
		}
		for _, c := range cols {
			row[c.Name] = parquetValue(c, c.Values[i])
		}
		b, err := json.Marshal(row)
		if err != nil {
			_ = pw.WriteStop()
			fw.Close()
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if err := pw.Write(string(b)); err != nil {
			_ = pw.WriteStop()
			fw.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return fw.Close()
}

// parquetSchema builds the JSON schema definition of t. Every column is
// optional so absent values are stored as nulls.
func parquetSchema(t *table.Table) (string, error) {
	fields := make([]map[string]string, 0, t.NumColumns()+2)
	if ix := t.Index(); ix != nil {
		fields = append(fields,
			field(ix.Names[0], "type=INT64"),
			field(ix.Names[1], "type=BYTE_ARRAY, convertedtype=UTF8"))
	}
	for _, c := range t.Columns() {
		fields = append(fields, field(c.Name, physicalType(c)))
	}
	out := map[string]any{
		"Tag":    "name=parquet_go_root, repetitiontype=REQUIRED",
		"Fields": fields,
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode parquet schema: %w", err)
	}
	return string(b), nil
}

func field(name, typ string) map[string]string {
	return map[string]string{
		"Tag": fmt.Sprintf("name=%s, %s, repetitiontype=OPTIONAL", name, typ),
	}
}

// physicalType maps a column to its parquet type, honouring narrowed widths
func physicalType(c *table.Column) string {
	switch c.Kind {
	case table.KindInt:
		switch {
		case c.Unsigned && (c.Width == 8 || c.Width == 16):
			return fmt.Sprintf("type=INT32, convertedtype=UINT_%d", c.Width)
		case !c.Unsigned && (c.Width == 8 || c.Width == 16 || c.Width == 32):
			return fmt.Sprintf("type=INT32, convertedtype=INT_%d", c.Width)
		}
		return "type=INT64"
	case table.KindFloat:
		if c.Width == 32 {
			return "type=FLOAT"
		}
		return "type=DOUBLE"
	}
	return "type=BYTE_ARRAY, convertedtype=UTF8"
}

func parquetValue(c *table.Column, v any) any {
	if table.IsAbsent(v) {
		return nil
	}
	switch c.Kind {
	case table.KindInt:
		if n, ok := table.Int(v); ok {
			return n
		}
	case table.KindFloat:
		if f, ok := table.Float(v); ok {
			return f
		}
	}
	return table.Format(v)
}
