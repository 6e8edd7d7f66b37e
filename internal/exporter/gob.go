package exporter

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"os"

	"surveycli/internal/table"
)

// writeGob writes a full snapshot of t, index and descriptor included
func writeGob(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := gob.NewEncoder(w).Encode(table.ToSnapshot(t)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
