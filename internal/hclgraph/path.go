package hclgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgcore/rendergraph/internal/ctxlog"
)

// ResolveGraphPath returns every .hcl file at path: path itself if it is a
// file, or every .hcl file found by a recursive walk if it is a directory.
func ResolveGraphPath(ctx context.Context, path string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("graph path not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	if info.IsDir() {
		logger.Debug("resolving graph path directory", "path", path)
		return findHCLFilesRecursive(path)
	}

	if filepath.Ext(path) != ".hcl" {
		return nil, fmt.Errorf("specified file is not an .hcl file: %s", path)
	}
	return []string{path}, nil
}

func findHCLFilesRecursive(rootDir string) ([]string, error) {
	var hclFiles []string
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".hcl" {
			hclFiles = append(hclFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hclFiles, nil
}
