package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"image-annotator/internal/interaction"
	"image-annotator/pkg/geometry"
)

// Command is one parsed script line.
type Command struct {
	Line  int
	Op    string
	X, Y  float64
	Dir   geometry.Direction
	Index int // 1-based annotation index, 0 when absent
	Text  string
}

// ParseScript reads one command per line. Blank lines and lines starting
// with '#' are skipped.
func ParseScript(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cmd.Line = lineNo
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return cmds, nil
}

func parseLine(line string) (Command, error) {
	op, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	cmd := Command{Op: op}

	switch op {
	case "down", "move", "click":
		if len(args) != 2 {
			return cmd, fmt.Errorf("%s needs x y", op)
		}
		var err error
		if cmd.X, err = strconv.ParseFloat(args[0], 64); err != nil {
			return cmd, fmt.Errorf("bad x %q", args[0])
		}
		if cmd.Y, err = strconv.ParseFloat(args[1], 64); err != nil {
			return cmd, fmt.Errorf("bad y %q", args[1])
		}
	case "up", "commit", "discard", "escape":
		if len(args) != 0 {
			return cmd, fmt.Errorf("%s takes no arguments", op)
		}
	case "grab":
		if len(args) < 1 || len(args) > 2 {
			return cmd, fmt.Errorf("grab needs a direction and an optional index")
		}
		dir, err := geometry.ParseDirection(args[0])
		if err != nil {
			return cmd, err
		}
		cmd.Dir = dir
		if len(args) == 2 {
			if cmd.Index, err = parseIndex(args[1]); err != nil {
				return cmd, err
			}
		}
	case "delete", "activate":
		if len(args) != 1 {
			return cmd, fmt.Errorf("%s needs an index", op)
		}
		var err error
		if cmd.Index, err = parseIndex(args[0]); err != nil {
			return cmd, err
		}
	case "text":
		cmd.Text = rest
	case "edit":
		idx, text, _ := strings.Cut(rest, " ")
		var err error
		if cmd.Index, err = parseIndex(idx); err != nil {
			return cmd, err
		}
		cmd.Text = strings.TrimSpace(text)
	default:
		return cmd, fmt.Errorf("unknown command %q", op)
	}
	return cmd, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad index %q (annotations are numbered from 1)", s)
	}
	return n, nil
}

// Run applies the commands to e. Index references resolve against the
// annotation list at the time the command runs.
func Run(e *interaction.Engine, cmds []Command) error {
	for _, c := range cmds {
		if _, err := Step(e, c); err != nil {
			return err
		}
	}
	return nil
}

// Step applies one command. Commands the engine ignores, such as a commit
// with blank text, are not errors; note then says what was skipped.
func Step(e *interaction.Engine, c Command) (note string, err error) {
	note, err = apply(e, c)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", c.Line, err)
	}
	return note, nil
}

func apply(e *interaction.Engine, c Command) (string, error) {
	switch c.Op {
	case "down":
		e.PointerDown(c.X, c.Y)
	case "move":
		e.PointerMove(c.X, c.Y)
	case "up":
		e.PointerUp()
	case "click":
		e.ImageAreaClick(c.X, c.Y)
	case "grab":
		if c.Index == 0 {
			return "", e.GrabHandle(c.Dir, nil)
		}
		a, err := annotationAt(e, c.Index)
		if err != nil {
			return "", err
		}
		return "", e.GrabHandle(c.Dir, &a)
	case "text":
		e.SetDraftText(c.Text)
	case "commit":
		if _, ok := e.CommitDraft(); !ok {
			return "commit skipped: no draft or blank text", nil
		}
	case "discard":
		e.DiscardDraft()
	case "escape":
		e.Escape()
	case "activate":
		id, err := annotationAt(e, c.Index)
		if err != nil {
			return "", err
		}
		e.SetActive(&id)
	case "delete":
		id, err := annotationAt(e, c.Index)
		if err != nil {
			return "", err
		}
		e.DeleteAnnotation(id)
	case "edit":
		id, err := annotationAt(e, c.Index)
		if err != nil {
			return "", err
		}
		e.SetAnnotationText(id, c.Text)
	}
	return "", nil
}
