package ui

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
)

const settingsFile = "settings.json"

// Settings persists Config in the user's config directory.
type Settings struct {
	dirs configdir.ConfigDir
	kind configdir.ConfigType
}

func NewSettings() *Settings {
	return &Settings{dirs: configdir.New("PacmanEmulator", "pacemu"), kind: configdir.Global}
}

// newLocalSettings keeps settings under dir instead of the user profile.
func newLocalSettings(dir string) *Settings {
	s := &Settings{dirs: configdir.New("PacmanEmulator", "pacemu"), kind: configdir.Local}
	s.dirs.LocalPath = dir
	return s
}

// Load overlays stored settings onto cfg. A missing file is not an error.
func (s *Settings) Load(cfg *Config) error {
	folder := s.dirs.QueryFolderContainsFile(settingsFile)
	if folder == nil {
		return nil
	}
	data, err := folder.ReadFile(settingsFile)
	if err != nil {
		return errors.Wrap(err, "ui: read settings")
	}
	return errors.Wrapf(json.Unmarshal(data, cfg), "ui: parse %s", settingsFile)
}

func (s *Settings) Save(cfg Config) error {
	folders := s.dirs.QueryFolders(s.kind)
	if len(folders) == 0 {
		return errors.New("ui: no settings folder")
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "ui: encode settings")
	}
	return errors.Wrap(folders[0].WriteFile(settingsFile, data), "ui: write settings")
}

// Path is where Save writes.
func (s *Settings) Path() string {
	folders := s.dirs.QueryFolders(s.kind)
	if len(folders) == 0 {
		return ""
	}
	return folders[0].Path
}
