// Package files reads tabular survey files and locates them on disk.
//
// Load dispatches on the file extension: delimited text (.csv), workbooks
// (.xlsx), columnar files (.parquet), gob snapshots (.gob) and Stata
// files (.dta). Cells of text formats, and Stata text and value labels,
// are typed by inference; columnar and gob files carry a
// table descriptor and come back with their kinds and category sets. A
// loaded table is never indexed: index columns, when present, are the two
// leading data columns.
//
// Discovery lists the period-tagged raw files of a dataset, and Manager
// performs the few file system operations the pipeline needs, such as
// replacing an output file atomically.
package files
