package env

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnvFile is the project-local fallback location for API keys.
const EnvFile = ".resp/.env"

// GetAPIKey retrieves an API key from the environment or .resp/.env.
// The system environment variable wins.
func GetAPIKey(keyName string) string {
	if key := os.Getenv(keyName); key != "" {
		return key
	}
	return LoadKeyFromEnvFile(filepath.FromSlash(EnvFile), keyName)
}

// LoadKeyFromEnvFile reads a specific key from a .env file.
func LoadKeyFromEnvFile(envPath, key string) string {
	file, err := os.Open(envPath)
	if err != nil {
		return ""
	}
	defer func() {
		_ = file.Close()
	}()

	scanner := bufio.NewScanner(file)
	prefix := key + "="

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip comments and empty lines
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}

	return ""
}

// SaveKeyToEnvFile saves a key-value pair to a .env file, preserving
// existing lines, comments, and blank lines.
func SaveKeyToEnvFile(envPath, key, value string) error {
	dir := filepath.Dir(envPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var lines []string
	keyFound := false
	existingFile, err := os.Open(envPath)
	if err == nil {
		scanner := bufio.NewScanner(existingFile)
		for scanner.Scan() {
			line := scanner.Text()
			trimmed := strings.TrimSpace(line)

			if trimmed != "" && !strings.HasPrefix(trimmed, "#") && strings.HasPrefix(trimmed, key+"=") {
				lines = append(lines, key+"="+value)
				keyFound = true
			} else {
				lines = append(lines, line)
			}
		}
		_ = existingFile.Close()
	} else if !os.IsNotExist(err) {
		return err
	}

	if !keyFound {
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, key+"="+value)
	}

	content := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(envPath, []byte(content), 0600)
}
