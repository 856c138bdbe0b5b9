package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/missionctl/engine/internal/mission"
)

// resolveMissionPath falls back to the configured missions directory when
// the file does not exist as given.
func resolveMissionPath(path string) string {
	if _, err := os.Stat(path); err == nil || filepath.IsAbs(path) {
		return path
	}
	alt := filepath.Join(viper.GetString("missionsDir"), path)
	if _, err := os.Stat(alt); err == nil {
		return alt
	}
	return path
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse, evaluate and decode a mission or package file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(resolveMissionPath(args[0]))
			if err != nil {
				return err
			}
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			gen := mission.NewGenerator(store, a.slog.Logger())

			text := string(raw)
			var missions []*mission.Mission
			if strings.Contains(text, "MissionPackage") {
				pkg, err := gen.LoadPackage(text, "")
				if err != nil {
					return err
				}
				missions = pkg.Missions
				fmt.Printf("Package %q: %d missions\n", pkg.Name, len(pkg.Missions))
			} else {
				m, err := gen.LoadMission(text, "")
				if err != nil {
					return err
				}
				missions = []*mission.Mission{m}
			}

			for _, m := range missions {
				fmt.Printf("Mission %q (reward %d)\n", m.Name, m.Reward)
				for _, g := range m.Goals {
					b := g.Base()
					line := fmt.Sprintf("  %s [%s]", b.ID, g.Kind())
					if b.Optional {
						line += " optional"
					}
					if b.Reward != 0 {
						line += fmt.Sprintf(" reward %d", b.Reward)
					}
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}

func newStateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show balance and active mission statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}

			fmt.Printf("Program: %s\n", a.programName)
			fmt.Printf("Balance: %d\n", store.Balance())

			passive := store.ActivePassiveMissions()
			fmt.Printf("Active passive missions: %d\n", len(passive))
			for _, m := range passive {
				fmt.Printf("  %s (vessel %s, reward %d)\n", m.MissionName, m.VesselID, m.PassiveReward)
			}
			controlled := store.ActiveClientControlledMissions()
			fmt.Printf("Active client-controlled missions: %d\n", len(controlled))
			for _, m := range controlled {
				line := fmt.Sprintf("  %s (vessel %s", m.MissionName, m.VesselID)
				if m.EndOfLife != 0 {
					line += ", expires " + time.Unix(m.EndOfLife, 0).UTC().Format(time.RFC3339)
				}
				fmt.Println(line + ")")
			}

			// Reading prunes expired records, so persist the result.
			return a.save(store)
		},
	}
}

func newRewardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reward <amount>",
		Short: "Apply a reward (or, negative, a cost) to the program balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			balance := store.Reward(amount)
			if err := a.save(store); err != nil {
				return err
			}
			if a.influx != nil {
				if err := a.influx.ReportBalance(a.programName, balance); err != nil {
					a.slog.Logger().Warn("balance stats report failed", "error", err)
				}
			}
			fmt.Printf("Balance: %d\n", balance)
			return nil
		},
	}
}

func newSettingsCmd(a *app) *cobra.Command {
	var disable, enable bool
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or toggle the plugin-disabled switch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if disable && enable {
				return fmt.Errorf("--disable and --enable are mutually exclusive")
			}
			if disable {
				a.settings.SetDisabled(true)
			}
			if enable {
				a.settings.SetDisabled(false)
			}
			if a.settings.Dirty() {
				if err := a.backend.SaveSettings(a.settings); err != nil {
					return err
				}
			}
			fmt.Printf("Plugin disabled: %v\n", a.settings.Disabled())
			return nil
		},
	}
	cmd.Flags().BoolVar(&disable, "disable", false, "set the plugin-disabled switch")
	cmd.Flags().BoolVar(&enable, "enable", false, "clear the plugin-disabled switch")
	return cmd
}
