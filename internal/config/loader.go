package config

import (
	"os"
	"path/filepath"
)

// GetConfigPath determines the configuration file path.
// Priority:
// 1. Path provided via the -globalconfig command-line flag
// 2. AUTOAUDIT_CONFIG_PATH environment variable
// 3. config.yaml / config.json in the current working directory
// 4. config.yaml / config.json in the executable's directory
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		return configFilePathFlag
	}

	envPath := os.Getenv("AUTOAUDIT_CONFIG_PATH")
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	cwd, errCwd := os.Getwd()
	exePath, errExe := os.Executable()
	exeDir := ""
	if errExe == nil {
		exeDir = filepath.Dir(exePath)
	}

	defaultFiles := []string{"config.yaml", "config.json"}
	locations := []string{}

	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if errExe == nil && exeDir != "" && (errCwd != nil || exeDir != cwd) {
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range defaultFiles {
			path := filepath.Join(loc, file)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
