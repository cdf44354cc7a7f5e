package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-scenegeom/pkg/core"
)

// ErrMalformedMesh is wrapped by every SMF parse failure
var ErrMalformedMesh = errors.New("malformed mesh")

// ParseError reports the line at which an SMF stream was rejected
type ParseError struct {
	Line int // 1-based line number
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: line %d: %s", ErrMalformedMesh, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedMesh
}

// MeshData contains the raw geometry read from a mesh file
type MeshData struct {
	Vertices []core.Vec3 // In file order
	Faces    [][3]int    // 0-based vertex indices
}

// ReadSMF parses the line-oriented SMF mesh format:
//
//	v <x> <y> <z>   vertex
//	f <i> <j> <k>   triangle of 1-based vertex indices
//	# ...           comment
//
// Lines are trimmed and blank lines skipped. All vertices must come before
// the first face, and every face index must refer to a vertex already read.
// Any other leading character fails the read. On error no data is returned.
func ReadSMF(r io.Reader, logger core.Logger) (*MeshData, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	data := &MeshData{}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	seenFace := false

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := line[0], line[1:]
		switch tag {
		case '#':
			continue
		case 'v':
			if seenFace {
				return nil, &ParseError{Line: lineNum, Msg: "vertex after first face"}
			}
			v, err := core.ParseVec3(rest)
			if err != nil {
				return nil, &ParseError{Line: lineNum, Msg: fmt.Sprintf("bad vertex: %v", err)}
			}
			data.Vertices = append(data.Vertices, v)
		case 'f':
			seenFace = true
			face, err := parseFace(rest, len(data.Vertices))
			if err != nil {
				return nil, &ParseError{Line: lineNum, Msg: err.Error()}
			}
			data.Faces = append(data.Faces, face)
		default:
			return nil, &ParseError{Line: lineNum, Msg: fmt.Sprintf("unknown line type %q", tag)}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	logger.Printf("Read SMF mesh: %d vertices, %d triangles\n", len(data.Vertices), len(data.Faces))
	return data, nil
}

// parseFace reads three 1-based indices and converts them to 0-based
func parseFace(s string, vertexCount int) ([3]int, error) {
	var face [3]int
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return face, fmt.Errorf("face needs 3 indices, got %d", len(fields))
	}
	for i, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil {
			return face, fmt.Errorf("bad face index %q", f)
		}
		if idx < 1 {
			return face, fmt.Errorf("vertex index %d less than 1", idx)
		}
		if idx > vertexCount {
			return face, fmt.Errorf("vertex index %d greater than vertex count %d", idx, vertexCount)
		}
		face[i] = idx - 1
	}
	return face, nil
}

// LoadSMF reads an SMF file from disk
func LoadSMF(filename string, logger core.Logger) (*MeshData, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open SMF file: %w", err)
	}
	defer file.Close()

	data, err := ReadSMF(file, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Printf("Loaded %s in %v\n", filename, time.Since(startTime))
	return data, nil
}
