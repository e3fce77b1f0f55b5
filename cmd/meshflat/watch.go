package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/philipparndt/meshflat/internal/config"
	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/philipparndt/meshflat/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-flatten a mesh whenever it changes",
	Long: `Watch flattens the input once and then again after every change of the file,
until interrupted. Failed runs are logged and the previous output is kept.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output file")
	_ = watchCmd.MarkFlagRequired("output")
	config.BindFlatten(watchCmd.Flags())
	config.BindWatch(watchCmd.Flags())
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logger.Log
	j := job{input: args[0], output: watchOutput, cfg: cfg, log: log}

	var mu sync.Mutex
	flattenOnce := func(string) {
		mu.Lock()
		defer mu.Unlock()

		out, err := j.run()
		if err != nil {
			logger.Error("flatten failed", zap.String("input", j.input), zap.Error(err))
			return
		}
		printOutcome(out)
	}

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, log)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	files, err := watchedFiles(j.input)
	if err != nil {
		return fmt.Errorf("resolving dependencies of %s: %w", j.input, err)
	}
	if err := fw.Watch(files, flattenOnce); err != nil {
		return fmt.Errorf("watching %s: %w", j.input, err)
	}

	flattenOnce(j.input)
	fw.Start()
	log.Info("watching for changes",
		zap.String("input", j.input),
		zap.Int("files", len(files)),
		zap.Duration("debounce", cfg.Watch.Debounce))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if err := fw.RemoveAll(); err != nil {
		logger.Warn("failed to remove watches", zap.Error(err))
	}
	return nil
}
