package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Export dumps every document of a collection into dir/<collection>/<id>.json.
func Export(ctx context.Context, st store.Store, collection, dir string, logger *zerolog.Logger) (int, error) {
	docs, err := st.ListAll(ctx, collection, 0)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", collection, err)
	}

	outDir := filepath.Join(dir, collection)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}

	written := 0
	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			logger.Warn().Str("collection", collection).Msg("Skipping document without id")
			continue
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return written, fmt.Errorf("export %s/%s: %w", collection, id, err)
		}
		if err := os.WriteFile(filepath.Join(outDir, id+".json"), data, 0o644); err != nil {
			return written, err
		}
		written++
	}

	logger.Info().Str("collection", collection).Int("count", written).Str("dir", outDir).Msg("Export complete")
	return written, nil
}

// Import upserts snapshot JSON into a collection. path may be a single file
// or a directory of *.json files; each file holds either one document or an
// array of them. Documents without an id get a generated one.
func Import(ctx context.Context, st store.Store, collection, path string, logger *zerolog.Logger) (int, error) {
	files, err := snapshotFiles(path)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, file := range files {
		docs, err := readDocs(file)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", file, err)
		}
		for _, doc := range docs {
			if doc.ID() == "" {
				doc["id"] = uuid.NewString()
			}
			if err := st.Upsert(ctx, collection, doc); err != nil {
				return imported, fmt.Errorf("import %s: %w", file, err)
			}
			imported++
		}
	}

	logger.Info().Str("collection", collection).Int("count", imported).Msg("Import complete")
	return imported, nil
}

func snapshotFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	return files, nil
}

func readDocs(file string) ([]store.Document, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var many []store.Document
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one store.Document
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []store.Document{one}, nil
}
