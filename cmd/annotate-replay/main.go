// Command annotate-replay drives the annotation engine from a script of
// pointer events and prints the resulting annotations as JSON.
//
// Script commands, one per line:
//
//	down X Y | move X Y | up | click X Y
//	grab DIRECTION [INDEX]   (top-left, top, ..., left; INDEX omitted = draft)
//	text COMMENT | commit | discard | escape
//	activate INDEX | edit INDEX COMMENT | delete INDEX
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"image-annotator/internal/annotation"
	"image-annotator/internal/interaction"

	"github.com/google/uuid"
)

func main() {
	scriptPath := flag.String("script", "", "Path to script (default: stdin)")
	outPath := flag.String("o", "", "Write JSON to this file instead of stdout")
	threshold := flag.Float64("threshold", interaction.DefaultJitterThreshold, "Drag threshold in pixels")
	verbose := flag.Bool("v", false, "Print the interaction state after each command to stderr")
	flag.Parse()

	var in io.Reader = os.Stdin
	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	cmds, err := ParseScript(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse script: %v\n", err)
		os.Exit(1)
	}

	opts := interaction.DefaultOptions()
	opts.JitterThreshold = *threshold
	engine := interaction.NewEngine(nil, opts)

	if *verbose {
		for _, c := range cmds {
			note, err := Step(engine, c)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}
			if note != "" {
				fmt.Fprintf(os.Stderr, "%4d %s\n", c.Line, note)
			}
			fmt.Fprintf(os.Stderr, "%4d %-8s -> %s\n", c.Line, c.Op, describe(engine.State()))
		}
	} else if err := Run(engine, cmds); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := annotation.WriteJSON(out, engine.Annotations()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func annotationAt(e *interaction.Engine, index int) (uuid.UUID, error) {
	list := e.Annotations()
	if index < 1 || index > len(list) {
		return uuid.Nil, fmt.Errorf("no annotation #%d (have %d)", index, len(list))
	}
	return list[index-1].ID, nil
}

func describe(st interaction.State) string {
	s := st.Mode().String()
	if st.Dragging {
		s += " dragging"
	}
	if st.Resizing {
		s += " " + st.Direction.String()
	}
	if st.Draft != nil {
		s += fmt.Sprintf(" draft=%s", st.Draft.Shape.Kind())
	}
	if st.ActiveID != nil {
		s += " active=" + st.ActiveID.String()
	}
	return s
}
