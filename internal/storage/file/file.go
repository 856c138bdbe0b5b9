// Package file implements the default storage backend: one codec-encoded
// text file per named program (`<name>.sp`) plus `settings.cfg`, all in the
// configured save directory.
package file

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/missionctl/engine/internal/codec"
	"github.com/missionctl/engine/internal/config"
	"github.com/missionctl/engine/internal/program"
	"github.com/missionctl/engine/internal/settings"
	"github.com/missionctl/engine/internal/tree"
)

const settingsFile = "settings.cfg"

// Backend stores programs and settings as codec text files.
type Backend struct {
	cfg config.FileConfig
	log *slog.Logger
}

// New creates a file backend rooted at the configured save directory.
func New(cfg config.FileConfig) *Backend {
	return &Backend{cfg: cfg, log: slog.Default()}
}

// Init ensures the save directory exists.
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.cfg.SaveDir, 0755); err != nil {
		return fmt.Errorf("creating save directory: %w", err)
	}
	return nil
}

// Close is a no-op; files are closed per operation.
func (b *Backend) Close() error {
	return nil
}

// LoadProgram reads `<name>.sp`. An absent or unparseable file recovers to a
// fresh program so a session can always start.
func (b *Backend) LoadProgram(name string) (*program.SpaceProgram, error) {
	raw, err := os.ReadFile(b.programPath(name))
	if err != nil {
		if !os.IsNotExist(err) {
			b.log.Warn("unreadable program file, starting fresh", "program", name, "error", err)
		}
		return program.NewSpaceProgram(0), nil
	}

	node, err := tree.ParseOne(string(raw))
	if err != nil {
		b.log.Warn("corrupt program file, starting fresh", "program", name, "error", err)
		return program.NewSpaceProgram(0), nil
	}
	obj, err := codec.Decode(node, program.Schema())
	if err != nil {
		b.log.Warn("undecodable program file, starting fresh", "program", name, "error", err)
		return program.NewSpaceProgram(0), nil
	}
	return obj.(*program.SpaceProgram), nil
}

// SaveProgram writes `<name>.sp` through a temp file and rename, so a crash
// mid-write never leaves a truncated save behind.
func (b *Backend) SaveProgram(name string, p *program.SpaceProgram) error {
	text := tree.Write(codec.Encode(p, program.Schema()))
	return b.writeAtomic(b.programPath(name), text)
}

// LoadSettings reads settings.cfg with the same recover-to-default contract.
func (b *Backend) LoadSettings() (*settings.Settings, error) {
	raw, err := os.ReadFile(filepath.Join(b.cfg.SaveDir, settingsFile))
	if err != nil {
		return settings.Default(), nil
	}

	node, err := tree.ParseOne(string(raw))
	if err != nil {
		b.log.Warn("corrupt settings file, using defaults", "error", err)
		return settings.Default(), nil
	}
	obj, err := codec.Decode(node, settings.Schema())
	if err != nil {
		b.log.Warn("undecodable settings file, using defaults", "error", err)
		return settings.Default(), nil
	}
	return obj.(*settings.Settings), nil
}

// SaveSettings writes settings.cfg and clears the dirty flag on success.
func (b *Backend) SaveSettings(s *settings.Settings) error {
	text := tree.Write(codec.Encode(s, settings.Schema()))
	if err := b.writeAtomic(filepath.Join(b.cfg.SaveDir, settingsFile), text); err != nil {
		return err
	}
	s.ClearDirty()
	return nil
}

func (b *Backend) programPath(name string) string {
	return filepath.Join(b.cfg.SaveDir, name+".sp")
}

func (b *Backend) writeAtomic(path, text string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
