package staticgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"spacetraveling/framework/engine"
)

const (
	indexFileName       = "index.html"
	defaultStaticPrefix = "static"
)

// Generator renders every enumerated page.
type Generator interface {
	Generate(ctx context.Context, opts engine.GenerateOptions) (engine.GenerateReport, error)
}

type Config struct {
	OutDir       string
	StaticDir    string
	StaticPrefix string
	Concurrency  int
}

type Result struct {
	Pages  []string
	Assets []string
}

// Run writes each page to <OutDir><path>/index.html and copies StaticDir
// under <OutDir>/<StaticPrefix>.
func Run(ctx context.Context, gen Generator, cfg Config) (Result, error) {
	outDir := strings.TrimSpace(cfg.OutDir)
	if outDir == "" {
		return Result{}, errors.New("output directory cannot be empty")
	}

	outAbs, err := filepath.Abs(outDir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve output directory %q: %w", outDir, err)
	}

	report, err := gen.Generate(ctx, engine.GenerateOptions{
		Concurrency: cfg.Concurrency,
		Emit: func(pagePath string, body []byte) error {
			return writePage(outAbs, pagePath, body)
		},
	})
	if err != nil {
		return Result{}, err
	}

	result := Result{Pages: report.Paths}
	if strings.TrimSpace(cfg.StaticDir) == "" {
		return result, nil
	}

	prefix := strings.Trim(strings.TrimSpace(cfg.StaticPrefix), "/")
	if prefix == "" {
		prefix = defaultStaticPrefix
	}
	assets, err := copyAssets(cfg.StaticDir, filepath.Join(outAbs, filepath.FromSlash(prefix)))
	if err != nil {
		return Result{}, err
	}
	result.Assets = assets
	return result, nil
}

// PageFile maps a page path to its file below outDir. Cleaning the rooted
// path keeps the file inside outDir.
func PageFile(outDir string, pagePath string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(pagePath))
	if strings.ContainsRune(cleaned, 0) {
		return "", fmt.Errorf("invalid page path %q", pagePath)
	}
	return filepath.Join(outDir, filepath.FromSlash(cleaned), indexFileName), nil
}

func writePage(outDir string, pagePath string, body []byte) error {
	target, err := PageFile(outDir, pagePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %q: %w", pagePath, err)
	}
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", target, err)
	}
	return nil
}

func copyAssets(staticDir string, targetDir string) ([]string, error) {
	rootAbs, err := filepath.Abs(staticDir)
	if err != nil {
		return nil, fmt.Errorf("resolve static directory %q: %w", staticDir, err)
	}

	copied := make([]string, 0, 8)
	walkErr := filepath.WalkDir(rootAbs, func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(rootAbs, filePath)
		if err != nil {
			return err
		}
		if err := copyFile(filePath, filepath.Join(targetDir, rel)); err != nil {
			return err
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("copy static directory %q: %w", staticDir, walkErr)
	}

	sort.Strings(copied)
	return copied, nil
}

func copyFile(source string, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
