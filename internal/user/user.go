// Package user persists the identity the admin console speaks as.
package user

import (
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/VoxDroid/stovbot/internal/config"
)

// DefaultName is the console sender when no profile is saved.
const DefaultName = "Admin"

// Profile holds the persisted console identity.
type Profile struct {
	Name string `json:"name,omitempty"`
}

func profilePath() (string, error) {
	d, err := config.EnsureDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "whoami.json"), nil
}

// SetProfile saves the profile to disk.
func SetProfile(p Profile) error {
	pfile, err := profilePath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(pfile, append(b, '\n'), 0o644)
}

// GetProfile reads the profile. Returns (Profile, true, nil) if found.
func GetProfile() (Profile, bool, error) {
	pfile, err := profilePath()
	if err != nil {
		return Profile{}, false, err
	}
	b, err := os.ReadFile(pfile)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return Profile{}, false, err
	}
	return p, true, nil
}

// ClearProfile removes the persisted profile.
func ClearProfile() error {
	pfile, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(pfile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SenderName returns the saved name, or DefaultName when none is saved or
// the profile cannot be read.
func SenderName() string {
	p, ok, err := GetProfile()
	if err != nil || !ok || strings.TrimSpace(p.Name) == "" {
		return DefaultName
	}
	return strings.TrimSpace(p.Name)
}
