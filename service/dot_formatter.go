package service

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/version"
)

// Graph granularities
const (
	GranularityModule = "module"
	GranularitySlice  = "slice"
)

// DOTFormatterConfig configures the DOT formatter behavior
type DOTFormatterConfig struct {
	// ClusterLayers groups nodes in one subgraph per layer
	ClusterLayers bool

	// ShowLegend includes a legend subgraph
	ShowLegend bool

	// Granularity is module (one node per file) or slice (one node per slice
	// or folder)
	Granularity string

	// ViolationsOnly keeps only nodes touching a violation
	ViolationsOnly bool

	// RankDir is the layout direction: TB, LR, BT, RL
	RankDir string
}

// DefaultDOTFormatterConfig returns a DOTFormatterConfig with sensible defaults
func DefaultDOTFormatterConfig() *DOTFormatterConfig {
	return &DOTFormatterConfig{
		ClusterLayers: true,
		ShowLegend:    true,
		Granularity:   GranularitySlice,
		RankDir:       "TB",
	}
}

// Validate checks the rank direction and granularity
func (c *DOTFormatterConfig) Validate() error {
	if !validRankDirs[c.RankDir] {
		return fmt.Errorf("invalid rank direction %q: must be one of TB, LR, BT, RL", c.RankDir)
	}
	switch c.Granularity {
	case GranularityModule, GranularitySlice:
	default:
		return fmt.Errorf("invalid granularity %q: must be module or slice", c.Granularity)
	}
	return nil
}

// DOTFormatter renders the audited import graph as DOT for Graphviz. Nodes
// are colored by their most severe violation and violating edges are red.
type DOTFormatter struct {
	config *DOTFormatterConfig
}

// NewDOTFormatter creates a new DOT formatter with the given configuration
func NewDOTFormatter(config *DOTFormatterConfig) *DOTFormatter {
	if config == nil {
		config = DefaultDOTFormatterConfig()
	}
	return &DOTFormatter{config: config}
}

// nodeColors maps the worst priority of a node to its fill and border
var nodeColors = map[domain.Priority]struct {
	fill   string
	border string
}{
	"":                {fill: "#E8F5E9", border: "#2E7D32"},
	domain.PriorityP2: {fill: "#FFF9C4", border: "#F9A825"},
	domain.PriorityP1: {fill: "#FFE0B2", border: "#EF6C00"},
	domain.PriorityP0: {fill: "#FFCDD2", border: "#C62828"},
}

// edgeStyles defines the visual style for edges based on the import form
var edgeStyles = map[domain.EdgeKind]struct {
	style string
	arrow string
}{
	domain.EdgeKindImport:   {style: "solid", arrow: "normal"},
	domain.EdgeKindRequire:  {style: "solid", arrow: "vee"},
	domain.EdgeKindDynamic:  {style: "dashed", arrow: "empty"},
	domain.EdgeKindReExport: {style: "bold", arrow: "diamond"},
}

// validRankDirs contains the valid Graphviz rank directions
var validRankDirs = map[string]bool{
	"TB": true,
	"LR": true,
	"BT": true,
	"RL": true,
}

type dotNode struct {
	id    string
	label string
	layer domain.Layer
	files int
	worst domain.Priority
}

type dotEdge struct {
	from, to  string
	kind      domain.EdgeKind
	count     int
	violating bool
	rules     map[string]bool
}

// FormatGraph formats the graph and returns the string
func (f *DOTFormatter) FormatGraph(snap *domain.Snapshot, report *domain.AuditReport) (string, error) {
	var sb strings.Builder
	if err := f.WriteGraph(snap, report, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteGraph writes the import graph of snap annotated with the violations of report
func (f *DOTFormatter) WriteGraph(snap *domain.Snapshot, report *domain.AuditReport, writer io.Writer) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if err := f.config.Validate(); err != nil {
		return err
	}

	nodes, edges := f.collect(snap, report)

	fmt.Fprintf(writer, "/* fsdscan import graph - %s %s */\n", f.config.Granularity, version.GetVersion())
	fmt.Fprintln(writer, "digraph fsd {")
	if len(nodes) == 0 {
		fmt.Fprintln(writer, "    /* No modules match the filter criteria */")
		fmt.Fprintln(writer, "}")
		return nil
	}
	fmt.Fprintf(writer, "    rankdir=%s;\n", f.config.RankDir)
	fmt.Fprintln(writer, "    node [shape=box, style=filled, fontname=\"Helvetica\"];")
	fmt.Fprintln(writer, "    edge [fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(writer)

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if f.config.ClusterLayers {
		byLayer := make(map[domain.Layer][]string)
		for _, id := range ids {
			byLayer[nodes[id].layer] = append(byLayer[nodes[id].layer], id)
		}
		layers := make([]domain.Layer, 0, len(byLayer))
		for l := range byLayer {
			layers = append(layers, l)
		}
		// highest layer first, unknown last
		sort.Slice(layers, func(i, j int) bool {
			if layers[i].Rank() != layers[j].Rank() {
				return layers[i].Rank() > layers[j].Rank()
			}
			return layers[i] < layers[j]
		})
		for _, l := range layers {
			fmt.Fprintf(writer, "    subgraph cluster_%s {\n", escapeDOTID(string(l)))
			fmt.Fprintf(writer, "        label=\"%s\";\n", escapeDOTLabel(string(l)))
			fmt.Fprintln(writer, "        style=rounded;")
			fmt.Fprintln(writer, "        color=\"#9E9E9E\";")
			for _, id := range byLayer[l] {
				f.writeNode(writer, nodes[id], "        ")
			}
			fmt.Fprintln(writer, "    }")
		}
	} else {
		for _, id := range ids {
			f.writeNode(writer, nodes[id], "    ")
		}
	}
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "    // Edges")
	f.writeEdges(writer, edges)

	if f.config.ShowLegend {
		fmt.Fprintln(writer)
		f.writeLegend(writer)
	}

	fmt.Fprintln(writer, "}")
	return nil
}

// nodeKey returns the node a module belongs to at the configured granularity
func (f *DOTFormatter) nodeKey(m *domain.ModuleRecord) string {
	if f.config.Granularity == GranularityModule {
		return m.RelPath
	}
	if m.SliceRoot != "" {
		return m.SliceRoot
	}
	if dir := path.Dir(m.RelPath); dir != "." {
		return dir
	}
	return m.RelPath
}

func (f *DOTFormatter) collect(snap *domain.Snapshot, report *domain.AuditReport) (map[string]*dotNode, []*dotEdge) {
	byRel := make(map[string]*domain.ModuleRecord, snap.ModuleCount())
	nodes := make(map[string]*dotNode)
	for _, m := range snap.Modules() {
		byRel[m.RelPath] = m
		key := f.nodeKey(m)
		n := nodes[key]
		if n == nil {
			label := key
			if f.config.Granularity == GranularityModule {
				label = path.Base(key)
			}
			n = &dotNode{id: key, label: label, layer: m.Layer}
			nodes[key] = n
		}
		n.files++
	}

	type pair struct{ from, to string }
	violatingEdges := make(map[pair]map[string]bool)
	touched := make(map[string]bool)
	if report != nil {
		for _, v := range report.Violations {
			var key string
			if subject := byRel[v.SubjectPath]; subject != nil {
				key = f.nodeKey(subject)
			} else if nodes[v.SubjectFolder] != nil {
				key = v.SubjectFolder
			} else {
				continue
			}
			touched[key] = true
			if n := nodes[key]; n.worst == "" || v.Priority.Level() < n.worst.Level() {
				n.worst = v.Priority
			}
			if related := byRel[v.RelatedPath]; related != nil {
				p := pair{key, f.nodeKey(related)}
				touched[p.to] = true
				if violatingEdges[p] == nil {
					violatingEdges[p] = make(map[string]bool)
				}
				violatingEdges[p][v.RuleID] = true
			}
		}
	}

	merged := make(map[pair]*dotEdge)
	for _, e := range snap.Edges() {
		if !e.Resolved() || e.External {
			continue
		}
		from, to := snap.Module(e.From), snap.Module(e.To)
		if from == nil || to == nil {
			continue
		}
		p := pair{f.nodeKey(from), f.nodeKey(to)}
		if p.from == p.to {
			continue
		}
		de := merged[p]
		if de == nil {
			de = &dotEdge{from: p.from, to: p.to, kind: e.Kind, rules: violatingEdges[p]}
			de.violating = len(de.rules) > 0
			merged[p] = de
		}
		de.count++
	}

	if f.config.ViolationsOnly {
		for id := range nodes {
			if !touched[id] {
				delete(nodes, id)
			}
		}
	}

	edges := make([]*dotEdge, 0, len(merged))
	for _, e := range merged {
		if nodes[e.from] == nil || nodes[e.to] == nil {
			continue
		}
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	return nodes, edges
}

// writeNode writes a single node in DOT format
func (f *DOTFormatter) writeNode(writer io.Writer, n *dotNode, indent string) {
	colors := nodeColors[n.worst]
	tooltip := fmt.Sprintf("%s\\n%d file(s)", n.id, n.files)
	if n.worst != "" {
		tooltip += "\\nworst: " + string(n.worst)
	}
	fmt.Fprintf(writer, "%s%s [label=\"%s\", fillcolor=\"%s\", color=\"%s\", tooltip=\"%s\"];\n",
		indent, escapeDOTID(n.id), escapeDOTLabel(n.label), colors.fill, colors.border, escapeDOTLabel(tooltip))
}

// writeEdges writes all edges in DOT format
func (f *DOTFormatter) writeEdges(writer io.Writer, edges []*dotEdge) {
	for _, e := range edges {
		style := edgeStyles[e.kind]
		if style.style == "" {
			style = edgeStyles[domain.EdgeKindImport]
		}
		fmt.Fprintf(writer, "    %s -> %s [style=%s, arrowhead=%s",
			escapeDOTID(e.from), escapeDOTID(e.to), style.style, style.arrow)

		if e.violating {
			rules := make([]string, 0, len(e.rules))
			for id := range e.rules {
				rules = append(rules, id)
			}
			sort.Strings(rules)
			fmt.Fprintf(writer, ", penwidth=2, color=\"#C62828\", label=\"%s\"", strings.Join(rules, ","))
		} else if e.count > 1 {
			fmt.Fprintf(writer, ", label=\"%d\"", e.count)
		}
		fmt.Fprintln(writer, "];")
	}
}

// writeLegend writes the legend subgraph
func (f *DOTFormatter) writeLegend(writer io.Writer) {
	fmt.Fprintln(writer, "    // Legend")
	fmt.Fprintln(writer, "    subgraph cluster_legend {")
	fmt.Fprintln(writer, "        label=\"Legend\";")
	fmt.Fprintln(writer, "        style=filled;")
	fmt.Fprintln(writer, "        fillcolor=\"#F5F5F5\";")
	fmt.Fprintln(writer, "        color=\"#CCCCCC\";")
	fmt.Fprintln(writer, "        fontsize=10;")
	for _, entry := range []struct {
		id    string
		label string
		p     domain.Priority
	}{
		{"legend_clean", "No violation", ""},
		{"legend_p2", "P2", domain.PriorityP2},
		{"legend_p1", "P1", domain.PriorityP1},
		{"legend_p0", "P0", domain.PriorityP0},
	} {
		fmt.Fprintf(writer, "        %s [label=\"%s\", fillcolor=\"%s\", color=\"%s\"];\n",
			entry.id, entry.label, nodeColors[entry.p].fill, nodeColors[entry.p].border)
	}
	fmt.Fprintln(writer, "        legend_edge_a [label=\"\", style=invis, width=0, height=0];")
	fmt.Fprintln(writer, "        legend_edge_b [label=\"violation\", style=invis, width=0, height=0];")
	fmt.Fprintln(writer, "        legend_edge_a -> legend_edge_b [penwidth=2, color=\"#C62828\", label=\"rule\"];")
	fmt.Fprintln(writer, "    }")
}

// escapeDOTID escapes a string for use as a DOT node ID
func escapeDOTID(id string) string {
	replacer := strings.NewReplacer(
		"/", "__",
		".", "_",
		"-", "_",
		"@", "_at_",
		" ", "_",
		":", "_",
		"(", "_",
		")", "_",
		"[", "_",
		"]", "_",
		"{", "_",
		"}", "_",
	)
	escaped := replacer.Replace(id)

	if len(escaped) > 0 && !isValidDOTIDStart(escaped[0]) {
		escaped = "_" + escaped
	}
	return escaped
}

// escapeDOTLabel escapes a string for use as a DOT label.
// Backslash goes first to avoid double-escaping.
func escapeDOTLabel(label string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"\"", "\\\"",
		"\n", "\\n",
		"\r", "",
		"\t", "\\t",
	)
	return replacer.Replace(label)
}

// isValidDOTIDStart checks if a character can start a DOT ID
func isValidDOTIDStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
