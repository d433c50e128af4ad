package main

import (
	"sort"

	"github.com/matsen/netviz/internal/network"
	"github.com/spf13/cobra"
)

var listType string

func init() {
	listCmd.Flags().StringVar(&listType, "type", "", "List only nodes of this type")
	rootCmd.AddCommand(nodeCmd)
	rootCmd.AddCommand(listCmd)
}

var nodeCmd = &cobra.Command{
	Use:   "node <node-id>",
	Short: "Show a node and its links",
	Long: `Show one node, its stored metrics and the links touching it.

Reads from the query cache; run 'nv rebuild' after editing the JSONL files.`,
	Args: cobra.ExactArgs(1),
	RunE: runNode,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List nodes",
	Long: `List nodes in dataset order from the query cache.

Examples:
  nv list --human
  nv list --type Person`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// NodeResult is the response for the node command.
type NodeResult struct {
	Node  network.Node   `json:"node"`
	Links []network.Link `json:"links"`
}

// ListResult is the response for the list command.
type ListResult struct {
	TotalNodes int            `json:"total_nodes"`
	TotalLinks int            `json:"total_links"`
	Nodes      []network.Node `json:"nodes"`
}

func runNode(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	n, err := db.GetNodeByID(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if n == nil {
		exitWithError(ExitDataError, "node not found: %s", args[0])
	}
	links, err := db.GetLinksByNode(n.ID)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if links == nil {
		links = []network.Link{}
	}

	if humanOutput {
		outputHuman("%s", n.ID)
		if n.Label != "" {
			outputHuman(" (%s)", n.Label)
		}
		if n.Type != "" {
			outputHuman(" [%s]", n.Type)
		}
		outputHuman("\n")
		keys := make([]string, 0, len(n.Metrics))
		for k := range n.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			outputHuman("  %-24s %s\n", k, formatFloat(n.Metrics[k]))
		}
		outputHuman("Links (%d):\n", len(links))
		for _, l := range links {
			outputHuman("  %s -> %s  %s\n", l.Source, l.Target, formatFloat(l.Strength()))
		}
		return nil
	}
	outputJSON(NodeResult{Node: *n, Links: links})
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var nodes []network.Node
	var err error
	if listType != "" {
		nodes, err = db.GetNodesByType(listType)
	} else {
		nodes, err = db.GetAllNodes()
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if nodes == nil {
		nodes = []network.Node{}
	}

	totalNodes, err := db.CountNodes()
	if err != nil {
		exitWithError(ExitError, "counting nodes: %v", err)
	}
	totalLinks, err := db.CountLinks()
	if err != nil {
		exitWithError(ExitError, "counting links: %v", err)
	}

	if humanOutput {
		for _, n := range nodes {
			outputHuman("%-24s %-32s %s\n", truncateString(n.ID, 24), truncateString(n.DisplayLabel(), LabelMaxLen), n.Type)
		}
		outputHuman("\n%d of %d nodes, %d links\n", len(nodes), totalNodes, totalLinks)
		return nil
	}
	outputJSON(ListResult{TotalNodes: totalNodes, TotalLinks: totalLinks, Nodes: nodes})
	return nil
}
