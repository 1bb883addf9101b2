package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/rulegen/pkg/config"
)

//go:embed all:templates
var templatesFS embed.FS

// Init scaffolds a new rulegen configuration in the current directory.
func Init(logger *logrus.Logger) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	// 1. Check for existing config to prevent overwrite
	configDest := filepath.Join(cwd, config.ConfigFileName)
	if _, err := os.Stat(configDest); err == nil {
		return fmt.Errorf("rulegen configuration already exists at %s", configDest)
	}

	cfg := config.Default()
	promptsDir := filepath.Join(cwd, cfg.SourceDir)
	fragmentsDir := filepath.Join(promptsDir, cfg.FragmentDir)

	// 2. Create destination directories
	logger.Debugf("Creating directory: %s", fragmentsDir)
	if err := os.MkdirAll(fragmentsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// 3. Copy starter files
	files := map[string]string{
		"templates/rulegen.config.yml": configDest,
		"templates/example.xml":        filepath.Join(promptsDir, "example.xml"),
		"templates/common.xml":         filepath.Join(fragmentsDir, "common.xml"),
	}
	for src, dest := range files {
		logger.Debugf("Copying %s to %s", src, dest)
		if err := copyFileFromFS(src, dest); err != nil {
			return err
		}
		rel, _ := filepath.Rel(cwd, dest)
		logger.Infof("✓ Created %s", rel)
	}

	logger.Info("✅ Rulegen initialized successfully.")
	logger.Infof("   Next steps: 1. Edit %s to match your project.", config.ConfigFileName)
	logger.Infof("               2. Author prompt definitions in %s/.", cfg.SourceDir)
	logger.Info("               3. Run 'rulegen generate' to compile your rules.")

	return nil
}

func copyFileFromFS(src, dest string) error {
	content, err := templatesFS.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read embedded file %s: %w", src, err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", dest, err)
	}
	return nil
}
