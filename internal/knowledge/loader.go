// Package knowledge loads the bank reference text that grounds generated answers.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Fallback is used when no knowledge text is available.
const Fallback = "Bank haqida ma'lumot fayli topilmadi."

type ParamGetter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// Source names where the knowledge text lives. Param wins over Path when both
// are set and a getter is given.
type Source struct {
	Params ParamGetter
	Param  string
	Path   string
}

// Load returns the knowledge text. A missing file degrades to Fallback;
// any other read or SSM failure is returned.
func Load(ctx context.Context, src Source) (string, error) {
	if src.Params != nil && strings.TrimSpace(src.Param) != "" {
		text, err := src.Params.GetParameter(ctx, src.Param)
		if err != nil {
			return "", fmt.Errorf("knowledge: load %s: %w", src.Param, err)
		}
		return orFallback(text), nil
	}

	path := strings.TrimSpace(src.Path)
	if path == "" {
		return Fallback, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "knowledge file not found, using fallback text", "path", path)
		return Fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("knowledge: read %s: %w", path, err)
	}
	return orFallback(string(raw)), nil
}

func orFallback(text string) string {
	if strings.TrimSpace(text) == "" {
		return Fallback
	}
	return text
}
