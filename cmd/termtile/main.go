package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/1broseidon/termtile/internal/config"
	"github.com/1broseidon/termtile/internal/daemon"
	"github.com/1broseidon/termtile/internal/hotkeys"
	"github.com/1broseidon/termtile/internal/hub"
	"github.com/1broseidon/termtile/internal/inspector"
	"github.com/1broseidon/termtile/internal/ipc"
	"github.com/1broseidon/termtile/internal/platform"
	"gopkg.in/yaml.v3"
	"rsc.io/getopt"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: termtile daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: termtile daemon")
			os.Exit(2)
		}
		runDaemon()
	case "focus", "move", "toggle", "exit":
		os.Exit(runTextCommand(os.Args[1], os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "tree":
		os.Exit(runTree(os.Args[2:]))
	case "inspector":
		os.Exit(runInspector(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termtile <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon                    Start the termtile daemon (foreground)")
	fmt.Fprintln(w, "  status                    Show daemon status")
	fmt.Fprintln(w, "  monitors                  List monitors the daemon manages")
	fmt.Fprintln(w, "  tree                      Print the live scene graph")
	fmt.Fprintln(w, "  inspector                 Open the read-only tree inspector TUI")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  focus up|down|left|right  Move focus between windows")
	fmt.Fprintln(w, "  focus parent              Focus the enclosing container")
	fmt.Fprintln(w, "  focus next_tab|prev_tab   Cycle tabs in the nearest tabbed container")
	fmt.Fprintln(w, "  focus workspace <name>    Switch to (or create) a workspace")
	fmt.Fprintln(w, "  move up|down|left|right   Move the focused window")
	fmt.Fprintln(w, "  move workspace <name>     Send the focused element to a workspace")
	fmt.Fprintln(w, "  toggle spawn_direction    Flip where the next window opens")
	fmt.Fprintln(w, "  toggle direction          Flip the focused container's split")
	fmt.Fprintln(w, "  toggle layout             Tab/untab the focused container")
	fmt.Fprintln(w, "  toggle float              Float or re-tile the focused element")
	fmt.Fprintln(w, "  exit                      Ask the daemon to shut down")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window insert [--title T] Insert a tiling window (testing)")
	fmt.Fprintln(w, "  window delete <id>        Delete a window by Hub id")
	fmt.Fprintln(w, "  window fullscreen <id>    Overlay a window fullscreen")
	fmt.Fprintln(w, "  window unfullscreen <id>  Drop a window's fullscreen overlay")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate           Validate configuration")
	fmt.Fprintln(w, "  config print              Print configuration")
	fmt.Fprintln(w, "  config explain            Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'termtile <command> --help' for command-specific options.")
}

// runTextCommand forwards one of the daemon's text commands verbatim
// over IPC: `focus {up|down|left|right|parent|next_tab|prev_tab}`,
// `focus workspace <name>`, `move {...}`, `move workspace <name>`,
// `toggle {spawn_direction|direction|layout|float}`, `exit`.
func runTextCommand(verb string, args []string) int {
	client := ipc.NewClient()

	var err error
	switch verb {
	case "focus":
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "focus requires a target (up/down/left/right/parent/next_tab/prev_tab/workspace)")
			return 2
		}
		err = client.Command(ipc.CommandFocus, args...)
	case "move":
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "move requires a target (up/down/left/right/workspace)")
			return 2
		}
		if args[0] == "workspace" {
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "move workspace requires a name")
				return 2
			}
			err = client.Command(ipc.CommandMoveWorkspace, args[1])
		} else {
			err = client.Command(ipc.CommandMove, args...)
		}
	case "toggle":
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "toggle requires a target (spawn_direction/direction/layout/float)")
			return 2
		}
		err = client.Command(ipc.CommandToggle, args...)
	case "exit":
		err = client.Command(ipc.CommandExit)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindow(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  termtile window insert [-t|--title TITLE]")
		fmt.Fprintln(os.Stderr, "  termtile window delete <id>")
		fmt.Fprintln(os.Stderr, "  termtile window fullscreen <id>")
		fmt.Fprintln(os.Stderr, "  termtile window unfullscreen <id>")
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "insert":
		fs := getopt.NewFlagSet("window insert", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		title := fs.String("title", "", "Window title")
		fs.Alias("t", "title")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		id, err := client.InsertTiling(*title)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(id)
		return 0

	case "delete":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "window delete requires <id>")
			return 2
		}
		if err := client.Command(ipc.CommandDeleteWindow, args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "fullscreen", "unfullscreen":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "window %s requires <id>\n", args[0])
			return 2
		}
		if _, err := strconv.Atoi(args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "invalid window id %q\n", args[1])
			return 2
		}
		cmd := ipc.CommandSetFullscreen
		if args[0] == "unfullscreen" {
			cmd = ipc.CommandUnsetFullscreen
		}
		if err := client.Command(cmd, args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown window subcommand: %s\n", args[0])
		return 2
	}
}

func runStatus(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: termtile status")
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	for _, m := range status.Monitors {
		marker := " "
		if m.Focused {
			marker = "*"
		}
		fmt.Printf("%s monitor %d (%s): %d workspaces, %d windows\n",
			marker, m.MonitorID, m.Name, m.WorkspaceCount, m.WindowCount)
	}
	return 0
}

func runMonitors(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: termtile monitors")
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, m := range data.Monitors {
		fmt.Printf("%d\t%s\t%d,%d %dx%d\n", m.ID, m.Name, m.X, m.Y, m.Width, m.Height)
	}
	return 0
}

func runTree(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: termtile tree")
		return 2
	}

	client := ipc.NewClient()
	tree, err := client.GetTree()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, n := range tree {
		printTreeNode(n, 0)
	}
	return 0
}

func printTreeNode(n hub.TreeNode, depth int) {
	marker := " "
	if n.Focused {
		marker = "*"
	}
	fmt.Printf("%s%s%s [%d] %d,%d %dx%d\n",
		strings.Repeat("  ", depth), marker, n.Label, n.ID,
		n.Rect.X, n.Rect.Y, n.Rect.Width, n.Rect.Height)
	for _, c := range n.Children {
		printTreeNode(c, depth+1)
	}
}

func runInspector(args []string) int {
	fs := getopt.NewFlagSet("inspector", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	interval := fs.Int("interval", 1, "Refresh interval in seconds")
	fs.Alias("n", "interval")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := inspector.Run(ipc.NewClient(), time.Duration(*interval)*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  termtile config validate [-p|--path PATH]")
		fmt.Fprintln(os.Stderr, "  termtile config print [-p|--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  termtile config explain [-p|--path PATH] <yaml.path>")
		return 2
	}

	newFlagSet := func(name string) (*getopt.FlagSet, *string) {
		fs := getopt.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/termtile/config.yaml)")
		fs.Alias("p", "path")
		return fs, path
	}
	load := func(path string) (*config.LoadResult, error) {
		if path == "" {
			return config.LoadWithSources()
		}
		return config.LoadFromPath(path)
	}

	switch args[0] {
	case "validate":
		fs, path := newFlagSet("config validate")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := load(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs, path := newFlagSet("config print")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := load(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs, path := newFlagSet("config explain")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := load(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		source := formatSource(src)
		if config.StdoutIsTerminal() {
			source = "\x1b[36m" + source + "\x1b[0m"
		}
		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", source)
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}

// defaultKeymap binds the text-command surface to global hotkeys,
// invoking the same Hub methods the IPC front-end dispatches to.
var defaultKeymap = []struct {
	key    string
	action func(h *hub.Hub)
}{
	{"Mod4-h", func(h *hub.Hub) { h.FocusDir(hub.DirLeft) }},
	{"Mod4-l", func(h *hub.Hub) { h.FocusDir(hub.DirRight) }},
	{"Mod4-k", func(h *hub.Hub) { h.FocusDir(hub.DirUp) }},
	{"Mod4-j", func(h *hub.Hub) { h.FocusDir(hub.DirDown) }},
	{"Mod4-a", func(h *hub.Hub) { h.FocusParent() }},
	{"Mod4-Tab", func(h *hub.Hub) { h.FocusNextTab() }},
	{"Mod4-Shift-Tab", func(h *hub.Hub) { h.FocusPrevTab() }},
	{"Mod4-Shift-h", func(h *hub.Hub) { h.MoveDir(hub.DirLeft) }},
	{"Mod4-Shift-l", func(h *hub.Hub) { h.MoveDir(hub.DirRight) }},
	{"Mod4-Shift-k", func(h *hub.Hub) { h.MoveDir(hub.DirUp) }},
	{"Mod4-Shift-j", func(h *hub.Hub) { h.MoveDir(hub.DirDown) }},
	{"Mod4-v", func(h *hub.Hub) { h.ToggleSpawnDirection() }},
	{"Mod4-e", func(h *hub.Hub) { h.ToggleDirection() }},
	{"Mod4-w", func(h *hub.Hub) { h.ToggleContainerLayout() }},
	{"Mod4-Shift-space", func(h *hub.Hub) { h.ToggleFloat() }},
	{"Mod4-f", func(h *hub.Hub) { h.ToggleFullscreen() }},
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (border: %dpx, tab strip: %dpx)",
		cfg.BorderThickness, cfg.TabStripHeight)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	d := daemon.New(cfg, backend, logger)
	log.Println("termtile daemon started successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.LoadRegistry()
	d.SyncMonitors()
	d.AdoptExistingWindows()

	listener := daemon.NewListener(d, backend, logger)
	if err := listener.Start(); err != nil {
		log.Printf("Warning: X11 event listener unavailable: %v", err)
	}

	hotkeyHandler := hotkeys.NewHandler(backend)
	for _, binding := range defaultKeymap {
		action := binding.action
		if err := hotkeyHandler.RegisterFunc(binding.key, func() {
			d.Exec(action)
		}); err != nil {
			log.Printf("Warning: failed to register hotkey %s: %v", binding.key, err)
		}
	}

	reloadChan := make(chan struct{}, 1)
	ipcServer, err := ipc.NewServer(cfg, d, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	ipcServer.ExitFunc = cancel
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	go d.RunReconciler(ctx, 10*time.Second)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newCfg, err := config.Load()
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					d.Exec(func(h *hub.Hub) {
						h.SyncConfig(newCfg.BorderThickness, newCfg.TabStripHeight,
							newCfg.DefaultMinWidth, newCfg.DefaultMinHeight)
					})
					log.Println("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down termtile daemon...")
					cancel()
				}

			case <-reloadChan:
				// config already applied to the Hub by the IPC handler;
				// nothing further to fan out.

			case <-ctx.Done():
				return
			}
		}
	}()

	// The X11 event loop blocks until the connection drops; a fatal Hub
	// invariant violation or a shutdown request ends the process first.
	eventDone := make(chan struct{})
	go func() {
		backend.EventLoop()
		close(eventDone)
	}()

	select {
	case err := <-d.Fatal():
		d.SaveRegistry()
		ipcServer.Stop()
		log.Fatalf("Fatal invariant violation: %v", err)
	case <-ctx.Done():
		d.SaveRegistry()
		ipcServer.Stop()
		log.Println("termtile daemon stopped")
	case <-eventDone:
		d.SaveRegistry()
		ipcServer.Stop()
		log.Println("X11 connection closed, exiting")
	}
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
