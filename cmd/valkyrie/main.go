/*
 * valkyrie - Emulator host: game-list loading, machine construction, run loop
 *
 * Copyright 2026, Valkyrie Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	getopt "github.com/pborman/getopt/v2"
	"github.com/peterh/liner"

	"github.com/valkyrie-emu/valkyrie/debugtrace"
	"github.com/valkyrie-emu/valkyrie/gamelist"
	"github.com/valkyrie-emu/valkyrie/logger"
	"github.com/valkyrie-emu/valkyrie/machine"
	"github.com/valkyrie-emu/valkyrie/memctl"
	"github.com/valkyrie-emu/valkyrie/renderer"
)

var consoleCommands = []string{"f1", "f2", "quit"}

var Logger *slog.Logger

// exit codes: 0 clean quit, 1 game list failure, 2 selected-game failure.
const (
	exitOK = iota
	exitGameList
	exitGame
)

func main() {
	os.Exit(run())
}

func run() int {
	optRomDir := getopt.StringLong("romdir", 'R', ".", "ROM directory")
	optGame := getopt.StringLong("rom", 'r', "", "Game name from the game list")
	optStrict := getopt.BoolLong("strict", 's', "Fail on an unrecognized ROM section name")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.StringLong("debug", 'd', "", "Debug subsystem mask, e.g. sh,gpu")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		return exitOK
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "valkyrie: can't create log file:", err)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, slog.LevelWarn))
	slog.SetDefault(Logger)

	if *optDebug != "" {
		debugtrace.SetMask(debugtrace.ParseMask(*optDebug))
	}

	Logger.Info("valkyrie started")

	doc, err := loadGameList()
	if err != nil {
		Logger.Error("loading game list", "err", err)
		return exitGameList
	}

	rom, ok := doc.Find(*optGame)
	if !ok {
		Logger.Error("game not found in game list", "name", *optGame)
		return exitGame
	}

	m, err := buildMachine(rom, *optRomDir, *optStrict)
	if err != nil {
		Logger.Error("loading game", "name", rom.Name, "err", err)
		return exitGame
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	cmds := make(chan string, 1)
	quitConsole := make(chan struct{})
	go consoleReader(cmds, quitConsole)

	statePath := rom.Name + ".vkstate"

loop:
	for {
		select {
		case <-sigChan:
			Logger.Info("got quit signal")
			break loop
		case <-quitConsole:
			Logger.Info("console closed")
			break loop
		case line := <-cmds:
			switch line {
			case "f1": // load state from <game>.vkstate
				loadState(m, statePath)
			case "f2": // save state to <game>.vkstate
				saveState(m, statePath)
			case "quit":
				break loop
			}
		default:
			m.RunFrame()
		}
	}

	Logger.Info("valkyrie stopped")
	return exitOK
}

// consoleReader runs a liner prompt loop on its own goroutine, feeding
// completed lines to cmds. It closes done when the prompt can no longer
// read (stdin closed or ctrl-C), so the run loop can quit without
// spinning on a dead input source.
func consoleReader(cmds chan<- string, done chan<- struct{}) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var matches []string
		for _, c := range consoleCommands {
			if len(prefix) <= len(c) && c[:len(prefix)] == prefix {
				matches = append(matches, c)
			}
		}
		return matches
	})

	for {
		cmd, err := line.Prompt("valkyrie> ")
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) {
				Logger.Error("reading console", "err", err)
			}
			close(done)
			return
		}
		line.AppendHistory(cmd)
		cmds <- cmd
	}
}

// gameListPaths returns the game list search order: the working directory,
// then the user's home, then the XDG-style data directory under it.
func gameListPaths() []string {
	var paths []string
	paths = append(paths, "vk-games.json")
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "vk-games.json"))
		paths = append(paths, filepath.Join(home, ".local", "share", "valkyrie", "vk-games.json"))
	}
	return paths
}

func loadGameList() (*gamelist.Document, error) {
	var firstErr error
	for _, p := range gameListPaths() {
		f, err := os.Open(p)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		defer f.Close()
		return gamelist.Parse(f)
	}
	return nil, fmt.Errorf("valkyrie: no vk-games.json found (tried %v): %w", gameListPaths(), firstErr)
}

// buildMachine combines rom's sections per the game list's rule and wires
// them into a fresh Machine. Only the eprom/maskrom sections feed the
// board's two ROM apertures; an unrecognized section name is ignored
// unless -s (strict) was given, in which case it is a hard failure.
func buildMachine(rom gamelist.Rom, romDir string, strict bool) (*machine.Machine, error) {
	load := func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(romDir, name))
	}

	var eprom, maskrom []byte
	for _, sec := range rom.Sections {
		buf, err := gamelist.Combine(sec, load)
		if err != nil {
			return nil, err
		}
		switch sec.Name {
		case "eprom":
			eprom = buf
		case "maskrom":
			maskrom = buf
		default:
			if strict {
				return nil, fmt.Errorf("valkyrie: unrecognized section %q in strict mode", sec.Name)
			}
		}
	}

	m := machine.New(Logger, renderer.NullRenderer{}, memctl.RomConfig{}, machine.Rom{EPROM: eprom, MaskROM: maskrom})
	return m, nil
}

func saveState(m *machine.Machine, path string) {
	f, err := os.Create(path)
	if err != nil {
		Logger.Error("save state", "path", path, "err", err)
		return
	}
	defer f.Close()
	if err := m.SaveState(f); err != nil {
		Logger.Error("save state", "path", path, "err", err)
	}
}

func loadState(m *machine.Machine, path string) {
	f, err := os.Open(path)
	if err != nil {
		Logger.Error("load state", "path", path, "err", err)
		return
	}
	defer f.Close()
	if err := m.LoadState(f); err != nil {
		Logger.Error("load state", "path", path, "err", err)
	}
}
