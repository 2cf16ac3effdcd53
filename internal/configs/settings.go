package configs

import (
	"log"
	"os"
	"path/filepath"
)

// SettingsFileName is the name of the settings file, placed directly under
// the user's configuration directory.
const SettingsFileName = "mcc"

// Settings holds everything needed to talk to the server. It is assembled
// at startup and read-only afterwards. The password lives only in memory
// and in the credential store, never in the settings file.
type Settings struct {
	APIURL   string
	Username string
	Password string
}

// StoredSettings is the on-disk settings document.
type StoredSettings struct {
	APIURL   string `json:"api_url"`
	Username string `json:"username"`
}

type UserSettings struct {
	SettingsPath string
}

// UserMattercryptSettings holds the resolved settings file location.
// Tests override it to point into a temporary directory.
var UserMattercryptSettings *UserSettings

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	// This is independent of the working directory, so it is ok to init here
	UserMattercryptSettings = &UserSettings{
		SettingsPath: filepath.Join(configDir, SettingsFileName),
	}
}
