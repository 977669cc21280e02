package sequencer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go-scseq/config"
	"go-scseq/debug"
)

// Save files are named by their creation time with an optional label
// tacked on: 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_take-two.json
const (
	saveTimeLayout = "2006-01-02_15-04-05"
	saveExt        = ".json"
)

// SaveInfo identifies one snapshot inside a project directory
type SaveInfo struct {
	Filename  string
	Label     string
	Timestamp time.Time
}

// ProjectsDir returns the root directory holding all projects
func ProjectsDir() (string, error) {
	base, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "projects"), nil
}

// ProjectDir returns the directory holding one project's saves
func ProjectDir(projectName string) (string, error) {
	base, err := ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, projectName), nil
}

// saveFilename builds the on-disk name for a snapshot
func saveFilename(ts time.Time, label string) string {
	name := ts.Format(saveTimeLayout)
	if label != "" {
		name += "_" + sanitizeLabel(label)
	}
	return name + saveExt
}

// parseSaveFilename recovers the timestamp and label from a snapshot
// filename. Files that don't follow the naming scheme report ok false.
func parseSaveFilename(filename string) (SaveInfo, bool) {
	base, found := strings.CutSuffix(filename, saveExt)
	if !found || len(base) < len(saveTimeLayout) {
		return SaveInfo{}, false
	}

	ts, err := time.Parse(saveTimeLayout, base[:len(saveTimeLayout)])
	if err != nil {
		return SaveInfo{}, false
	}

	info := SaveInfo{Filename: filename, Timestamp: ts}
	if rest := base[len(saveTimeLayout):]; strings.HasPrefix(rest, "_") {
		info.Label = rest[1:]
	}
	return info, true
}

// sanitizeLabel makes a user-entered label safe to embed in a filename
func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '-'
		case '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, label)
}

// ListProjects returns every project folder name, sorted
func ListProjects() ([]string, error) {
	dir, err := ProjectsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns a project's snapshots, newest first
func ListSaves(projectName string) ([]SaveInfo, error) {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, ok := parseSaveFilename(entry.Name()); ok {
			saves = append(saves, info)
		}
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})
	return saves, nil
}

// SaveProject writes the current state as a new snapshot. An empty
// project name goes to "untitled".
func SaveProject(projectName string) error {
	if projectName == "" {
		projectName = "untitled"
	}

	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(S, "", "  ")
	if err != nil {
		return err
	}

	filename := saveFilename(time.Now(), "")
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return err
	}

	S.ProjectName = projectName
	debug.Log("project", "saved %s/%s", projectName, filename)
	return nil
}

// LoadProject replaces the global state with a saved snapshot. An empty
// filename picks the newest save. The transport comes back stopped, but
// the playhead and drum step phase survive so playback can resume in
// place.
func LoadProject(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}

	if filename == "" {
		saves, err := ListSaves(projectName)
		if err != nil || len(saves) == 0 {
			return fmt.Errorf("no saves found in project %s", projectName)
		}
		filename = saves[0].Filename
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return err
	}

	loaded := NewState()
	if err := json.Unmarshal(data, loaded); err != nil {
		return err
	}

	*S = *loaded
	S.ProjectName = projectName

	S.PianoRoll.Playing = false
	for _, m := range S.Modules {
		if m.Drum != nil {
			m.Drum.Playing = false
		}
	}
	S.MidiMap.RecordMode = RecordOff

	debug.Log("project", "loaded %s/%s", projectName, filename)
	return nil
}

// CreateProject makes an empty project folder
func CreateProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// DeleteSave removes one snapshot file
func DeleteSave(projectName, filename string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(dir, filename))
}

// RenameSave relabels a snapshot in place, keeping its timestamp
func RenameSave(projectName, oldFilename, newLabel string) error {
	dir, err := ProjectDir(projectName)
	if err != nil {
		return err
	}

	info, ok := parseSaveFilename(oldFilename)
	if !ok {
		return fmt.Errorf("unrecognized save file %q", oldFilename)
	}

	newFilename := saveFilename(info.Timestamp, newLabel)
	return os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename))
}

// DeleteProject removes a project folder and every save in it
func DeleteProject(name string) error {
	dir, err := ProjectDir(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// RenameProject moves a project folder to a new name
func RenameProject(oldName, newName string) error {
	oldDir, err := ProjectDir(oldName)
	if err != nil {
		return err
	}
	newDir, err := ProjectDir(newName)
	if err != nil {
		return err
	}
	if err := os.Rename(oldDir, newDir); err != nil {
		return err
	}

	if S.ProjectName == oldName {
		S.ProjectName = newName
	}
	return nil
}
