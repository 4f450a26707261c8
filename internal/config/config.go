package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const (
	// DefaultProfile is the profile Anki creates on first start.
	DefaultProfile = "User 1"

	collectionFile = "collection.anki2"
	configFile     = "config.yaml"
	appName        = "streakkeeper"
)

// GetAnkiBaseDir resolves Anki's data directory. It checks ANKI_BASE first,
// then the platform location Anki itself uses, and finally falls back to the
// user's home directory.
func GetAnkiBaseDir() string {
	if explicit := os.Getenv("ANKI_BASE"); explicit != "" {
		return explicit
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Anki2")
		}
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "Anki2")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "Anki2")
}

// GetCollectionPath returns the collection file of an Anki profile.
func GetCollectionPath(profile string) string {
	if profile == "" {
		profile = DefaultProfile
	}
	return filepath.Join(GetAnkiBaseDir(), profile, collectionFile)
}

// GetConfigFile returns the settings file location. STREAKKEEPER_CONFIG
// overrides the XDG config directory.
func GetConfigFile() string {
	if explicit := os.Getenv("STREAKKEEPER_CONFIG"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	configHome := xdg.ConfigHome
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), appName, configFile)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, appName, configFile)
}
