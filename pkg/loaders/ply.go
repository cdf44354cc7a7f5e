package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-scenegeom/pkg/core"
)

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // scalar type, or the item type of a list
	IsList   bool
	ListType string // type of the list count
}

// PLYElement is one element block of the header, e.g. vertex or face
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYHeader represents the parsed header of a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// ReadPLY reads vertex positions and faces from a PLY stream. Polygons with
// more than three vertices are split into a triangle fan. Elements and
// properties other than vertex x/y/z and face vertex_indices are skipped.
func ReadPLY(r io.Reader, logger core.Logger) (*MeshData, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	reader := bufio.NewReader(r)
	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported PLY format %q", ErrMalformedMesh, header.Format)
	}

	data := &MeshData{}
	for _, elem := range header.Elements {
		for i := 0; i < elem.Count; i++ {
			if err := readPLYRecord(values, elem, data); err != nil {
				return nil, fmt.Errorf("%w: %s %d: %v", ErrMalformedMesh, elem.Name, i, err)
			}
		}
	}

	for i, f := range data.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(data.Vertices) {
				return nil, fmt.Errorf("%w: face %d: vertex index %d with %d vertices", ErrMalformedMesh, i, idx, len(data.Vertices))
			}
		}
	}

	logger.Printf("Read PLY mesh: %d vertices, %d triangles\n", len(data.Vertices), len(data.Faces))
	return data, nil
}

// parsePLYHeader reads up to and including end_header, leaving reader at the body
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrMalformedMesh)
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ended without end_header", ErrMalformedMesh)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid format line", ErrMalformedMesh)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid element line", ErrMalformedMesh)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count: %s", ErrMalformedMesh, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before element", ErrMalformedMesh)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			elem := &header.Elements[len(header.Elements)-1]
			elem.Props = append(elem.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header line %q", ErrMalformedMesh, parts[0])
		}
	}
}

// parsePLYProperty parses the fields after "property"
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		if getTypeSize(parts[1]) == 0 || getTypeSize(parts[2]) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unknown list types %s %s", ErrMalformedMesh, parts[1], parts[2])
		}
		return PLYProperty{Name: parts[3], Type: parts[2], IsList: true, ListType: parts[1]}, nil
	}
	if len(parts) == 2 && parts[0] != "list" {
		if getTypeSize(parts[0]) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unknown property type %s", ErrMalformedMesh, parts[0])
		}
		return PLYProperty{Name: parts[1], Type: parts[0]}, nil
	}
	return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrMalformedMesh)
}

// getTypeSize returns the size in bytes of a PLY data type, 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

func readPLYRecord(values plyValueReader, elem PLYElement, data *MeshData) error {
	var pos [3]float64
	for _, prop := range elem.Props {
		if prop.IsList {
			v, err := values.read(prop.ListType)
			if err != nil {
				return err
			}
			n, err := plyInt(v)
			if err != nil {
				return fmt.Errorf("list length: %v", err)
			}
			if n < 0 || n > maxPLYListLength {
				return fmt.Errorf("list length %d outside [0, %d]", n, maxPLYListLength)
			}
			isFace := elem.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index")
			items := make([]int, 0, n)
			for k := 0; k < n; k++ {
				v, err := values.read(prop.Type)
				if err != nil {
					return err
				}
				if !isFace {
					continue
				}
				idx, err := plyInt(v)
				if err != nil {
					return fmt.Errorf("vertex index %d: %v", k, err)
				}
				items = append(items, idx)
			}
			if isFace {
				if len(items) < 3 {
					return fmt.Errorf("face needs at least 3 indices, got %d", len(items))
				}
				for k := 1; k+1 < len(items); k++ {
					data.Faces = append(data.Faces, [3]int{items[0], items[k], items[k+1]})
				}
			}
			continue
		}

		v, err := values.read(prop.Type)
		if err != nil {
			return err
		}
		if elem.Name == "vertex" {
			switch prop.Name {
			case "x":
				pos[0] = v
			case "y":
				pos[1] = v
			case "z":
				pos[2] = v
			}
		}
	}
	if elem.Name == "vertex" {
		data.Vertices = append(data.Vertices, core.NewVec3(pos[0], pos[1], pos[2]))
	}
	return nil
}

// maxPLYListLength bounds the item count of a single list property
const maxPLYListLength = 1 << 16

// plyInt converts a value read for a count or index, rejecting anything that
// is not a whole number in the int32 range
func plyInt(v float64) (int, error) {
	if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	return int(v), nil
}

// plyValueReader reads one scalar of the given PLY type from the body
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	word := a.scanner.Text()
	v, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s value %q", dataType, word)
	}
	return v, nil
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if _, err := io.ReadFull(b.r, b.buf[:size]); err != nil {
		return 0, err
	}
	raw := b.buf[:size]
	switch dataType {
	case "char", "int8":
		return float64(int8(raw[0])), nil
	case "uchar", "uint8":
		return float64(raw[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(raw))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(raw)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(raw))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(raw)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(raw))), nil
	default: // double
		return math.Float64frombits(b.order.Uint64(raw)), nil
	}
}

// LoadPLY reads a PLY file from disk
func LoadPLY(filename string, logger core.Logger) (*MeshData, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Printf("Loaded %s in %v\n", filename, time.Since(startTime))
	return data, nil
}

// LoadMesh reads a mesh file, choosing the reader by extension.
// Anything other than .ply is read as SMF.
func LoadMesh(filename string, logger core.Logger) (*MeshData, error) {
	if strings.EqualFold(filepath.Ext(filename), ".ply") {
		return LoadPLY(filename, logger)
	}
	return LoadSMF(filename, logger)
}
