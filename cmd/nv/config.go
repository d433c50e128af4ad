package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/netviz/internal/config"
	"github.com/matsen/netviz/internal/controls"
	"github.com/spf13/cobra"
)

var configGlobal bool

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "Read or write the global config instead of the repository's")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  nv config                           # Show all config
  nv config metric                    # Get specific value
  nv config metric degree             # Set value
  nv config --global nexus-path ~/networks/main

Repository keys:
  directed         Treat links as directed (true/false)
  metric           Saved sizing metric (empty clears it)
  size-threshold   Saved node size threshold
  label-threshold  Saved label size threshold
  labels           Saved label toggle (true/false)
  size-gated       Saved size gating toggle (true/false)
  display-lo       Low end of the display size range
  display-hi       High end of the display size range

Global keys (--global):
  nexus-path       Default repository when not inside one
  listen           Default address for 'nv serve'`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for showing the repository config.
type ConfigResponse struct {
	Directed bool           `json:"directed"`
	Source   string         `json:"source,omitempty"`
	Controls controls.State `json:"controls"`
}

// GlobalConfigResponse is the response for showing the global config.
type GlobalConfigResponse struct {
	Path      string `json:"path"`
	NexusPath string `json:"nexus_path"`
	Listen    string `json:"listen"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configGlobal {
		return runGlobalConfig(args)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	state := cfg.ControlState()

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("directed:        %t\n", cfg.Directed)
			fmt.Printf("source:          %s\n", cfg.Source)
			for _, key := range repoKeys {
				v, _ := repoValue(cfg, state, key)
				fmt.Printf("%-16s %s\n", key+":", v)
			}
		} else {
			outputJSON(ConfigResponse{Directed: cfg.Directed, Source: cfg.Source, Controls: state})
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		v, ok := repoValue(cfg, state, key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): v})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := setRepoValue(cfg, &state, key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if key != "directed" {
		normalized := state.Normalize()
		cfg.Controls = &normalized
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

var repoKeys = []string{"metric", "size-threshold", "label-threshold", "labels", "size-gated", "display-lo", "display-hi"}

func repoValue(cfg *config.Config, state controls.State, key string) (string, bool) {
	switch key {
	case "directed":
		return strconv.FormatBool(cfg.Directed), true
	case "metric":
		return state.Metric, true
	case "size-threshold":
		return formatFloat(state.SizeThreshold), true
	case "label-threshold":
		return formatFloat(state.LabelThreshold), true
	case "labels":
		return strconv.FormatBool(state.Labels), true
	case "size-gated":
		return strconv.FormatBool(state.SizeGated), true
	case "display-lo":
		return formatFloat(state.Display.Lo), true
	case "display-hi":
		return formatFloat(state.Display.Hi), true
	}
	return "", false
}

func setRepoValue(cfg *config.Config, state *controls.State, key, value string) error {
	var err error
	switch key {
	case "directed":
		cfg.Directed, err = strconv.ParseBool(value)
	case "metric":
		if err := config.ValidateMetric(value); err != nil {
			return err
		}
		state.Metric = value
	case "size-threshold":
		state.SizeThreshold, err = strconv.ParseFloat(value, 64)
	case "label-threshold":
		state.LabelThreshold, err = strconv.ParseFloat(value, 64)
	case "labels":
		state.Labels, err = strconv.ParseBool(value)
	case "size-gated":
		state.SizeGated, err = strconv.ParseBool(value)
	case "display-lo":
		state.Display.Lo, err = strconv.ParseFloat(value, 64)
	case "display-hi":
		state.Display.Hi, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q", key, value)
	}
	return nil
}

func runGlobalConfig(args []string) error {
	g, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}

	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("path:        %s\n", config.GlobalConfigPath())
			fmt.Printf("nexus-path:  %s\n", g.NexusPath)
			fmt.Printf("listen:      %s\n", config.GetListen())
		} else {
			outputJSON(GlobalConfigResponse{Path: config.GlobalConfigPath(), NexusPath: g.NexusPath, Listen: config.GetListen()})
		}
		return nil
	}

	key := normalizeKey(args[0])
	if len(args) == 1 {
		var v string
		switch key {
		case "nexus-path":
			v = g.NexusPath
		case "listen":
			v = config.GetListen()
		default:
			exitWithError(ExitError, "unknown global configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(v)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): v})
		}
		return nil
	}

	value := args[1]
	updated := *g
	switch key {
	case "nexus-path":
		expanded := config.ExpandPath(value)
		if err := config.ValidateNexus(expanded); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		updated.NexusPath = expanded
	case "listen":
		updated.Listen = value
	default:
		exitWithError(ExitError, "unknown global configuration key: %s", args[0])
	}

	if err := config.SaveGlobalConfig(&updated); err != nil {
		exitWithError(ExitError, "saving global config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

// normalizeKey converts key formats (size_threshold, Size-Threshold) to a consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
