package shader

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
)

// ─────────────────────────────────── Stages ────────────────────────────────────

// Stage identifies the pipeline stage a block of source belongs to.
type Stage int

const (
	// StageNone is the parser state before any marker has been seen.
	StageNone Stage = iota
	StageVertex
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "Vertex"
	case StageFragment:
		return "Fragment"
	default:
		return "None"
	}
}

// ─────────────────────────────────── Source ────────────────────────────────────

const (
	markerToken   = "#shader"
	vertexToken   = "vertex"
	fragmentToken = "fragment"
)

// Source holds the two text blobs split out of a combined shader file.
type Source struct {
	Vertex   string
	Fragment string
	// Dropped counts content lines that appeared before the first marker.
	Dropped int
}

// Stage returns the blob for the given stage, or "" for StageNone.
func (s Source) Stage(stage Stage) string {
	switch stage {
	case StageVertex:
		return s.Vertex
	case StageFragment:
		return s.Fragment
	}
	return ""
}

// Complete reports whether both stages have source text.
func (s Source) Complete() bool {
	return s.Vertex != "" && s.Fragment != ""
}

// markerStage returns the stage a marker line selects. ok is false for a
// line that is not a marker at all. An unrecognised marker keeps current.
func markerStage(line string, current Stage) (stage Stage, ok bool) {
	if !strings.Contains(line, markerToken) {
		return current, false
	}
	switch {
	case strings.Contains(line, vertexToken):
		return StageVertex, true
	case strings.Contains(line, fragmentToken):
		return StageFragment, true
	}
	return current, true
}

// Parse splits r into vertex and fragment source. Each content line is kept
// with a trailing newline in the blob of the most recent marker.
func Parse(r io.Reader) (Source, error) {
	var (
		src     Source
		blobs   [2]strings.Builder
		current = StageNone
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if stage, isMarker := markerStage(line, current); isMarker {
			current = stage
			continue
		}

		switch current {
		case StageVertex:
			blobs[0].WriteString(line)
			blobs[0].WriteByte('\n')
		case StageFragment:
			blobs[1].WriteString(line)
			blobs[1].WriteByte('\n')
		default:
			src.Dropped++
		}
	}

	src.Vertex = blobs[0].String()
	src.Fragment = blobs[1].String()
	if err := scanner.Err(); err != nil {
		return src, fmt.Errorf("failed to read shader source: %w", err)
	}
	return src, nil
}

// ParseFile reads and splits the shader file at path. A file that cannot be
// opened yields an empty Source alongside the error.
func ParseFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to open shader %q: %w", path, err)
	}
	defer f.Close()

	src, err := Parse(f)
	if err != nil {
		return src, fmt.Errorf("shader %q: %w", path, err)
	}
	return src, nil
}

// ────────────────────────────────── Built-ins ──────────────────────────────────

//go:embed res/*.shader
var builtins embed.FS

// Default returns the built-in solid color shader, in the GLES dialect when
// isGLES is set.
func Default(isGLES bool) Source {
	name := "res/Basic.shader"
	if isGLES {
		name = "res/Basic.es.shader"
	}
	f, err := builtins.Open(name)
	if err != nil {
		panic(fmt.Sprintf("shader: missing built-in %s: %v", name, err))
	}
	defer f.Close()

	src, err := Parse(f)
	if err != nil {
		panic(fmt.Sprintf("shader: bad built-in %s: %v", name, err))
	}
	return src
}
