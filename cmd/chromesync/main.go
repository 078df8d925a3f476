package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/1broseidon/chromesync/internal/config"
	"github.com/1broseidon/chromesync/internal/ipc"
	"github.com/1broseidon/chromesync/internal/tui"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "center":
		os.Exit(runSimple("center", "Center the managed window on its monitor.", os.Args[2:], func(c *ipc.Client) (*ipc.StatusData, error) {
			return c.Center()
		}))
	case "recreate":
		os.Exit(runSimple("recreate", "Destroy and recreate the managed window (new native handle).", os.Args[2:], func(c *ipc.Client) (*ipc.StatusData, error) {
			return c.Recreate()
		}))
	case "reload":
		os.Exit(runSimple("reload", "Reload the configuration file and apply its decoration flags.", os.Args[2:], func(c *ipc.Client) (*ipc.StatusData, error) {
			return c.Reload()
		}))
	case "save-defaults":
		os.Exit(runSaveDefaults(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: chromesync <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the chromesync daemon (foreground)")
	fmt.Fprintln(w, "  status              Show decoration and window status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  set <flag> on|off   Toggle a decoration flag")
	fmt.Fprintln(w, "  center              Center the managed window")
	fmt.Fprintln(w, "  recreate            Recreate the managed window")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "  save-defaults       Save current flags as configuration defaults")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags: native-title-bar, preserve-frame, blur, resizable")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'chromesync <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromesync status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:    %v\n", status.DaemonRunning)
	if status.TopLevel {
		fmt.Fprintf(w, "window:            0x%x\n", status.Handle)
	} else {
		fmt.Fprintln(w, "window:            none")
	}
	fmt.Fprintf(w, "window_state:      %s\n", status.Chrome.WindowState)
	fmt.Fprintf(w, "native_title_bar:  %v\n", status.Config.NativeTitleBar)
	fmt.Fprintf(w, "preserve_frame:    %v\n", status.Config.PreserveFrame)
	fmt.Fprintf(w, "blur:              %v\n", status.Config.Blur)
	fmt.Fprintf(w, "resizable:         %v\n", status.Config.Resizable)
	fmt.Fprintf(w, "title_bar_visible: %v\n", status.Chrome.TitleBarVisible)
	background := status.Chrome.Background
	if status.Chrome.Translucent {
		background += " (translucent)"
	}
	fmt.Fprintf(w, "background:        %s\n", background)
	fmt.Fprintf(w, "maximize_glyph:    %s\n", status.Chrome.Glyph)
	fmt.Fprintf(w, "center_enabled:    %v\n", status.Chrome.CenterEnabled)
	if len(status.PersistedFlags) > 0 {
		names := make([]string, 0, len(status.PersistedFlags))
		for name := range status.PersistedFlags {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "env %s: %v\n", name, status.PersistedFlags[name])
		}
	}
	fmt.Fprintf(w, "uptime_seconds:    %d\n", status.UptimeSeconds)
	printWarnings(w, status)
}

func printWarnings(w io.Writer, status *ipc.StatusData) {
	for _, msg := range status.Warnings {
		fmt.Fprintf(w, "warning: %s\n", msg)
	}
}

// parseSwitch accepts on/off style values for set.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "no", "0", "disable", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q (want on or off)", s)
	}
}

func runSet(args []string) int {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromesync set <flag> on|off")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Toggle a decoration flag of the managed window.")
		fmt.Fprintln(os.Stderr, "Flags: native-title-bar, preserve-frame, blur, resizable")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "set requires <flag> and on|off")
		fs.Usage()
		return 2
	}
	enabled, err := parseSwitch(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	status, err := client.SetFlag(fs.Arg(0), enabled)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%s: %s\n", fs.Arg(0), map[bool]string{true: "on", false: "off"}[enabled])
	printWarnings(os.Stderr, status)
	return 0
}

func runSimple(name, desc string, args []string, call func(*ipc.Client) (*ipc.StatusData, error)) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chromesync %s\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, desc)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	status, err := call(ipc.NewClient())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if status.TopLevel {
		fmt.Printf("%s: ok (window 0x%x)\n", name, status.Handle)
	} else {
		fmt.Printf("%s: ok\n", name)
	}
	printWarnings(os.Stderr, status)
	return 0
}

func runSaveDefaults(args []string) int {
	fs := flag.NewFlagSet("save-defaults", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chromesync save-defaults")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Write the daemon's current flags to the configuration file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	path, err := ipc.NewClient().SaveDefaults()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("saved: %s\n", path)
	return 0
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  chromesync config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  chromesync config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  chromesync config path")
		fmt.Fprintln(os.Stderr, "  chromesync config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/chromesync/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/chromesync/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfig(*path)
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

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/chromesync/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			fmt.Fprintf(os.Stderr, "known paths: %s\n", strings.Join(config.ExplainPaths(), ", "))
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
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

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: chromesync tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive TUI for the managed window's decoration.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓      Select flag")
		fmt.Fprintln(os.Stderr, "  Space, Enter  Toggle selected flag")
		fmt.Fprintln(os.Stderr, "  c             Center window")
		fmt.Fprintln(os.Stderr, "  r             Recreate window")
		fmt.Fprintln(os.Stderr, "  s             Save current flags as defaults")
		fmt.Fprintln(os.Stderr, "  g             Refresh status")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C     Quit")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
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
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
