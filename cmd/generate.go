package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grovetools/rulegen/pkg/builder"
	"github.com/grovetools/rulegen/pkg/compiler"
	"github.com/grovetools/rulegen/pkg/config"
)

func newGenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Compile prompt definitions into rule artifacts",
		Long: `Compiles prompt definition XML documents into markdown rule files.

Without arguments, reads rulegen.config.yml from the current directory and
compiles every document under the configured source directory. With a file
argument, compiles that single document to --output (or stdout).

Examples:
  rulegen generate                        # Compile the whole source directory
  rulegen generate prompts/java.xml       # Compile one document to stdout
  rulegen generate prompts/java.xml -o .cursor/rules/java.mdc`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return generateOne(args[0], output)
			}
			return generateAll()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file for single-document compilation (default stdout)")

	return cmd
}

func generateOne(source, output string) error {
	artifact, err := compiler.New(getLogger()).Compile(source)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(artifact)
		return err
	}
	if err := os.WriteFile(output, artifact, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	log.Infof("Compiled %s -> %s", source, output)
	return nil
}

func generateAll() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("No %s found, using defaults", config.ConfigFileName)
			cfg = config.Default()
		} else {
			return err
		}
	}
	if !cfg.Enabled {
		log.Info("Rule compilation is disabled in config")
		return nil
	}

	_, err = builder.New(getLogger()).Build(cfg, cwd)
	return err
}
