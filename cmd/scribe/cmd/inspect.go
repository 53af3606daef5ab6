package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/go-scribe/scribe/pkg/dom"
	"github.com/go-scribe/scribe/pkg/errors"
	"github.com/go-scribe/scribe/pkg/surface"
)

var (
	surfacePath string
	docPath     string
	selectExpr  string
	verbose     bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report which containers a selection makes visible",
	Long: `Inspect loads a surface definition and an HTML document, places the
selection on the first element matching --select (or leaves it empty), runs
one evaluation pass, and prints the decision for every container.

The effective selection is the selected element plus all of its ancestors,
the sequence a rich-text editor feeds to the evaluator on selection change.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&surfacePath, "surface", "c", "", "surface definition YAML (required)")
	inspectCmd.Flags().StringVarP(&docPath, "doc", "d", "", "HTML document (required)")
	inspectCmd.Flags().StringVarP(&selectExpr, "select", "s", "", "CSS selector placing the selection; empty selects nothing")
	inspectCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics, including stack traces")
	_ = inspectCmd.MarkFlagRequired("surface")
	_ = inspectCmd.MarkFlagRequired("doc")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(command *cobra.Command, args []string) error {
	errors.SetHandler(&errors.LogHandler{Verbose: verbose})

	cfg, err := surface.Load(surfacePath)
	if err != nil {
		return err
	}
	s, err := surface.Build(cfg)
	if err != nil {
		return err
	}

	file, err := os.Open(docPath)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()
	doc, err := dom.Parse(file)
	if err != nil {
		return err
	}

	var elements []dom.Element
	if selectExpr != "" {
		el, err := dom.Find(doc, selectExpr)
		if err != nil {
			return err
		}
		if el == nil {
			return fmt.Errorf("nothing in %s matches %q", docPath, selectExpr)
		}
		elements = dom.AncestorChain(el)
	}

	s.SelectionChanged(elements)
	printDecisions(command.OutOrStdout(), s, elements)
	return nil
}

func printDecisions(out io.Writer, s *surface.Surface, elements []dom.Element) {
	fmt.Fprintf(out, "selection: %s\n\n", describeSelection(elements))

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tID\tLABEL\tSHOW ON\tVISIBLE")
	for _, id := range s.GroupIDs() {
		g := s.Group(id)
		fmt.Fprintf(w, "group\t%s\t%s\t%s\t%t\n", id, g.Label(), g.Condition().Key(), g.Visible())
	}
	for _, id := range s.PanelIDs() {
		p := s.Panel(id)
		fmt.Fprintf(w, "panel\t%s\t%s\t%s\t%t\n", id, p.Title(), p.Condition().Key(), p.Visible())
	}
	w.Flush()
}

func describeSelection(elements []dom.Element) string {
	if len(elements) == 0 {
		return "<none>"
	}
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = el.Description()
	}
	return strings.Join(parts, " > ")
}
