// missionctl is the command-line front end of the mission engine: it
// validates mission definition files and inspects or mutates saved space
// programs through the configured storage backend.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/missionctl/engine/internal/config"
	"github.com/missionctl/engine/internal/influx"
	"github.com/missionctl/engine/internal/logging"
	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/internal/settings"
	"github.com/missionctl/engine/internal/storage"
)

type app struct {
	slog     *logging.SlogManager
	backend  storage.Backend
	settings *settings.Settings
	influx   *influx.Reporter

	configDir   string
	programName string
}

func main() {
	a := &app{slog: logging.NewSlogManager()}

	root := &cobra.Command{
		Use:           "missionctl",
		Short:         "Mission engine control tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.influx != nil {
				if err := a.influx.Close(); err != nil {
					a.slog.Logger().Warn("closing stats reporter", "error", err)
				}
			}
			if a.backend != nil {
				return a.backend.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", ".", "directory holding engine.cfg.json")
	root.PersistentFlags().StringVar(&a.programName, "program", "default", "named space program (save)")

	root.AddCommand(
		newValidateCmd(a),
		newStateCmd(a),
		newRewardCmd(a),
		newSettingsCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup wires config, logging and the storage backend, in that order.
func (a *app) setup() error {
	if err := config.Load(a.configDir); err != nil {
		return err
	}

	level := viper.GetString("logLevel")
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err == nil {
		path := logging.LogFilePath(logsDir, "engine", time.Now())
		if f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666); err == nil {
			a.slog.Setup(f, level)
		} else {
			a.slog.Setup(nil, level)
		}
	} else {
		a.slog.Setup(nil, level)
	}

	if viper.GetBool("influx.enabled") {
		rep := influx.NewReporter(logging.ConsoleLogger(level),
			filepath.Join(logsDir, "influx_backup.gz"))
		if err := rep.Connect(); err != nil {
			a.slog.Logger().Warn("stats reporter unavailable", "error", err)
		} else {
			a.influx = rep
		}
	}

	backend, err := storage.NewBackend(config.GetStorageConfig(), logging.ConsoleLogger(level))
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return err
	}
	a.backend = backend

	a.settings, err = backend.LoadSettings()
	return err
}

// loadStore builds the session store over the configured program.
func (a *app) loadStore() (*program.Store, error) {
	p, err := a.backend.LoadProgram(a.programName)
	if err != nil {
		return nil, err
	}
	return program.NewStore(p, a.slog.Logger(), a.settings.Disabled), nil
}

func (a *app) save(store *program.Store) error {
	return a.backend.SaveProgram(a.programName, store.Program())
}
