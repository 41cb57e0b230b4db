package main

import (
	"fmt"
	"io"

	"github.com/amishk599/internscout/internal/pipeline"
)

func printSummary(w io.Writer, state pipeline.State) {
	fmt.Fprintf(w, "\n--- Run %s finished (%s) ---\n", state.RunID, state.Stage)
	if len(state.Sites) > 0 {
		fmt.Fprintln(w, "Sites:")
		for _, s := range state.Sites {
			if s.Err != nil {
				fmt.Fprintf(w, "  %-20s failed: %v\n", s.Site, s.Err)
				continue
			}
			fmt.Fprintf(w, "  %-20s %d records\n", s.Site, s.Records)
		}
	}
	fmt.Fprintln(w, "Final Log:")
	fmt.Fprint(w, state.Log.Summary())
}
