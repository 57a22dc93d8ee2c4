package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the theme file name inside the user config directory.
const DefaultFileName = "theme.toml"

// Store persists the selected theme to a TOML file. It is used only at the
// application boundary: Load once at startup, Save on every toggle.
type Store struct {
	Path string
}

type themeFile struct {
	Theme     string    `toml:"theme"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// DefaultPath returns ~/.config/ls-natal/theme.toml (or the platform
// equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(dir, "ls-natal", DefaultFileName)
}

// Load reads the saved theme. A missing file yields Default and no error.
func (s Store) Load() (Theme, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default, nil
		}
		return Default, fmt.Errorf("reading theme file: %w", err)
	}

	var f themeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Default, fmt.Errorf("parsing theme file: %w", err)
	}
	t, err := Parse(f.Theme)
	if err != nil {
		return Default, fmt.Errorf("theme file %s: %w", s.Path, err)
	}
	return t, nil
}

// Save writes the theme atomically (write temp + rename).
func (s Store) Save(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}

	data, err := toml.Marshal(themeFile{Theme: string(t), UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshaling theme: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp theme file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming theme file: %w", err)
	}
	return nil
}
