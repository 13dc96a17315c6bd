package config

import (
	"os"
	"path/filepath"
)

const appDirName = ".commonwealth"

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "COMMONWEALTH_HOME"

func DataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, appDirName), nil
}

func dataFile(name string) (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name), nil
}

func ConfigPath() (string, error) {
	return dataFile("config.toml")
}

func FlagsPath() (string, error) {
	return dataFile("flags.toml")
}

func StatePath() (string, error) {
	return dataFile("state.json")
}

func BboltPath() (string, error) {
	return dataFile("state.db")
}

func SQLitePath() (string, error) {
	return dataFile("state.sqlite")
}

func UILogPath() (string, error) {
	return dataFile("ui.log")
}
