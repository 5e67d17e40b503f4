package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"taskdeck/internal/task"
)

// doctorCommand checks the data directory, persisted blobs, and API reachability.
func doctorCommand(ctx context.Context, w io.Writer, d *deps) error {
	fmt.Fprintln(w, "Taskdeck Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Check data directory
	fmt.Fprintf(w, "Data dir: %s\n", d.cfg.DataDir)
	if err := checkWritable(d.cfg.DataDir); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	// Check tasks blob
	fmt.Fprintln(w, "Tasks:")
	blobPath := filepath.Join(d.cfg.DataDir, task.StorageKey+".json")
	raw, err := os.ReadFile(blobPath)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ✅ No saved tasks yet")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	default:
		var tasks []task.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			fmt.Fprintf(w, "  ❌ Corrupt: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  ✅ %d task(s)\n", len(tasks))
		}
	}
	fmt.Fprintln(w)

	// Check API reachability
	fmt.Fprintf(w, "API: %s\n", d.cfg.APIBaseURL)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := d.client.Post(pingCtx, 1); err != nil {
		fmt.Fprintf(w, "  ❌ Unreachable: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if !allOK {
		return fmt.Errorf("doctor checks failed")
	}
	fmt.Fprintln(w, "All checks passed")
	return nil
}

// checkWritable verifies the directory exists (creating it if needed) and
// accepts writes.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
