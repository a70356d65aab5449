// Package cli provides the plain line-oriented inspector: terminal I/O,
// output formatting, and meta-command dispatch.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/biorome/engine"
	"github.com/nathoo/biorome/engine/save"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	Logger    *slog.Logger
	SaveDir   string
	Compress  bool // write .json.zst snapshots
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		Logger:  slog.Default(),
		SaveDir: filepath.Join(home, ".biorome", "saves"),
	}
}

// Run starts the inspector loop. It shows the farm overview, then loops:
// prompt, input, dispatch, output.
func (c *CLI) Run() {
	c.printResult(c.Engine.Step("look"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the session should end.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true
	case "/save":
		c.cmdSave(arg)
	case "/load":
		c.cmdLoad(arg)
	case "/help":
		c.cmdHelp()
	case "/state":
		c.cmdState()
	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}
	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}
	return false
}

func (c *CLI) cmdSave(name string) {
	msg, err := SaveWorld(c.Engine, c.Defs, c.SaveDir, name, c.Compress)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.logger().Info("world saved", "name", name, "dir", c.SaveDir)
	c.printSystem(msg)
}

func (c *CLI) cmdLoad(name string) {
	msg, err := LoadWorld(c.Engine, c.SaveDir, name)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.logger().Info("world loaded", "name", name, "dir", c.SaveDir)
	c.printSystem(msg)
	c.printResult(c.Engine.Step("look"))
}

// SaveWorld writes the engine's world to the named snapshot. It is shared
// by the plain inspector and the TUI.
func SaveWorld(eng *engine.Engine, defs *state.Defs, dir, name string, compress bool) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	data, err := save.Save(eng.World, defs)
	if err != nil {
		return "", err
	}
	if _, err := save.WriteSlot(dir, name, compress, data); err != nil {
		return "", err
	}
	return fmt.Sprintf("World saved to %s.", name), nil
}

// LoadWorld replaces the engine's world with the named snapshot, in
// whichever format it was last saved.
func LoadWorld(eng *engine.Engine, dir, name string) (string, error) {
	if name == "" {
		name = "quicksave"
	}
	path, err := save.Find(dir, name)
	if err != nil {
		return "", err
	}
	data, err := save.ReadFile(path)
	if err != nil {
		return "", err
	}
	sd, err := save.Load(data)
	if err != nil {
		return "", err
	}
	w, err := save.Restore(sd)
	if err != nil {
		return "", err
	}
	eng.World = w
	return fmt.Sprintf("World loaded from %s (day %d).", name, w.Day), nil
}

// MetaHelp lists the meta-commands.
var MetaHelp = []string{
	"System:",
	"  /save [name]   Save the world (default: quicksave)",
	"  /load [name]   Load a saved world (default: quicksave)",
	"  /quit          Exit",
	"  /help          Show this help",
	"  /state         Dump world counters",
	"  /trace         Toggle lookup trace output",
	"",
}

func (c *CLI) cmdHelp() {
	for _, line := range MetaHelp {
		c.printLine(line)
	}
	c.printResult(c.Engine.Step("help"))
}

// StateLines summarizes the world for /state.
func StateLines(eng *engine.Engine) []string {
	w := eng.World
	n := w.Count()
	return []string{
		fmt.Sprintf("Day: %d", w.Day),
		fmt.Sprintf("Grid: %dx%d", w.Rows(), w.Cols()),
		fmt.Sprintf("Plants: %d, animals: %d", n.Plants, n.Animals),
		fmt.Sprintf("Assemblies: %d (%d deployed)", n.Assemblies, n.Deployed),
		fmt.Sprintf("Requirement lists: %d", eng.Defs.Requirements.Len()),
	}
}

func (c *CLI) cmdState() {
	for _, line := range StateLines(c.Engine) {
		c.printSystem(line)
	}
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range result.Trace {
		c.printSystem("[trace] " + line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
