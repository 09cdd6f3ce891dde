package configs

import (
	"flag"
	"os"

	"github.com/newswired/livedesk/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from --config, the
// LIVEDESK_CONFIG env var, or a list of conventional locations. An empty
// result means "defaults + env only", which is a valid way to run.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("LIVEDESK_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/livedesk/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
