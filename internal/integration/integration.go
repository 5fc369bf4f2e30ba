// Package integration provides embedded shell integration snippets.
package integration

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// ZshFzf contains the zsh shell integration script with fzf support.
//
//go:embed zsh-fzf.sh
var ZshFzf string

// Render renders the integration script with the path of the running
// treewalk binary.
func Render() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating treewalk binary: %w", err)
	}

	return RenderFor(exe)
}

// RenderFor renders the integration script for the binary at exe.
func RenderFor(exe string) (string, error) {
	tmpl, err := template.New("zsh-fzf").Parse(ZshFzf)
	if err != nil {
		return "", fmt.Errorf("parsing integration template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{
		"TREEWALK": filepath.ToSlash(exe),
	}); err != nil {
		return "", fmt.Errorf("rendering integration template: %w", err)
	}

	return buf.String(), nil
}
