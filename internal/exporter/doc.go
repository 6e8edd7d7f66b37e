// Package exporter writes cleaned tables to disk.
//
// Save dispatches on the file extension. Delimited text puts the index
// columns first and can prefix a UTF-8 BOM so spreadsheet tools detect the
// encoding. Parquet files carry the table descriptor in their footer
// metadata and honour narrowed integer and float widths; gob files hold a
// full snapshot. Every file is written to a temporary path and moved into
// place once complete.
//
// Example usage:
//
//	exp := exporter.New(files.NewManager(paths, logger), exporter.Options{BOMPrefix: true}, logger)
//	if err := exp.Save(res.Table, paths.OutputFile(res.Dataset, "parquet")); err != nil {
//		return err
//	}
package exporter
