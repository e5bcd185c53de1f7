package batch

import (
	"encoding/json"
	"os"
)

// WriteManifest writes the per-file results to manifest.json in the
// output directory, preview names and mesh stats included.
func WriteManifest(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
