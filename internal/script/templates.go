package script

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed templates/*.js
var templateFS embed.FS

// ErrUnknownTemplate is returned for a template name that is not built in.
var ErrUnknownTemplate = errors.New("unknown template")

// Template returns the source of a built-in bot.
func Template(name string) (string, error) {
	b, err := templateFS.ReadFile(path.Join("templates", name+".js"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
		}
		return "", err
	}
	return string(b), nil
}

// Templates lists the built-in bot names.
func Templates() []string {
	entries, _ := templateFS.ReadDir("templates")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".js"))
	}
	sort.Strings(names)
	return names
}

// FromTemplate compiles a built-in bot.
func FromTemplate(name string, opts ...Option) (*Controller, error) {
	src, err := Template(name)
	if err != nil {
		return nil, err
	}
	return New(name, src, opts...)
}
