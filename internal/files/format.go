package files

import (
	"path/filepath"
	"strings"

	apperrors "surveycli/internal/errors"
)

// Supported file formats, named by extension
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
	FormatGob     = "gob"
	// FormatDTA is the Stata binary table; it is read but never written
	FormatDTA = "dta"
)

// DescriptorKey names the footer metadata entry holding the table
// descriptor of a parquet file
const DescriptorKey = "surveycli.descriptor"

// FormatOf returns the format of path from its extension. Formats that
// cannot be read yield an UNSUPPORTED_FORMAT error.
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case FormatCSV, FormatXLSX, FormatParquet, FormatGob, FormatDTA:
		return ext, nil
	}
	return "", apperrors.NewUnsupportedFormatError(path)
}
