package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/philipparndt/meshflat/internal/config"
	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the meshflat configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a file",
	Long: `Init writes the configuration currently in effect (defaults, config file and
flags merged) as YAML. Without a path it goes to the user config directory,
where meshflat picks it up on the next run.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		written, err := initConfig(cfg, path, configForce)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", written)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")
}

// initConfig saves c to path, or to the user config directory when path is
// empty, and returns the file written.
func initConfig(c *config.Config, path string, force bool) (string, error) {
	target := path
	if target == "" {
		target = filepath.Join(config.ConfigDir(), "config.yaml")
	}

	if _, err := os.Stat(target); err == nil && !force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite", target)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	var err error
	if path == "" {
		err = c.Save()
	} else {
		err = c.SaveTo(path)
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}
	logger.Debug("wrote config", zap.String("path", target))
	return target, nil
}
