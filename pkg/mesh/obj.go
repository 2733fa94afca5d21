package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/uvwrap/pkg/errors"
)

// =============================================================================
// Wavefront OBJ I/O
// =============================================================================

// ReadOBJFile loads a mesh from a Wavefront OBJ file.
// See ReadOBJ for the supported subset of the format.
func ReadOBJFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	m, err := ReadOBJ(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return m, nil
}

// ReadOBJ parses a Wavefront OBJ stream. It understands v, vt, and f
// statements; faces with more than three corners are fan-triangulated, and
// both 1-based and negative (relative) indices are accepted. All other
// statements (normals, groups, materials) are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	var uvs []Vec2
	uvRefs := map[int]int{} // vertex index -> vt index

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var p Vec3
			var err error
			if p.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if p.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if p.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			m.Vertices = append(m.Vertices, p)
		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: texture coordinate needs 2 values", lineNo)
			}
			u, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			v, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			uvs = append(uvs, Vec2{u, v})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners", lineNo)
			}
			corners := make([]int, 0, len(fields)-1)
			for _, fld := range fields[1:] {
				vi, ti, err := parseFaceCorner(fld, len(m.Vertices), len(uvs))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				if ti >= 0 {
					uvRefs[vi] = ti
				}
				corners = append(corners, vi)
			}
			// Fan triangulation for quads and larger polygons.
			for i := 1; i < len(corners)-1; i++ {
				m.Triangles = append(m.Triangles, [3]int{corners[0], corners[i], corners[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(uvs) > 0 && len(uvRefs) > 0 {
		m.UVs = make([]Vec2, len(m.Vertices))
		for vi, ti := range uvRefs {
			m.UVs[vi] = uvs[ti]
		}
	}
	return m, nil
}

// parseFaceCorner resolves one "v", "v/vt", "v//vn", or "v/vt/vn" face field
// to 0-based vertex and texture indices. The texture index is -1 when absent.
func parseFaceCorner(field string, numVerts, numUVs int) (vi, ti int, err error) {
	parts := strings.Split(field, "/")
	vi, err = resolveIndex(parts[0], numVerts)
	if err != nil {
		return 0, 0, fmt.Errorf("face corner %q: %w", field, err)
	}
	ti = -1
	if len(parts) > 1 && parts[1] != "" {
		ti, err = resolveIndex(parts[1], numUVs)
		if err != nil {
			return 0, 0, fmt.Errorf("face corner %q: %w", field, err)
		}
	}
	return vi, ti, nil
}

// resolveIndex converts an OBJ 1-based or negative index to a 0-based one.
func resolveIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case idx > 0 && idx <= n:
		return idx - 1, nil
	case idx < 0 && -idx <= n:
		return n + idx, nil
	default:
		return 0, fmt.Errorf("index %d out of range [1,%d]", idx, n)
	}
}

// WriteOBJFile writes the mesh to path in Wavefront OBJ format.
func WriteOBJFile(m *Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteOBJ(m, f); err != nil {
		f.Close()
		return err
	}
	// Close reports deferred write failures; swallowing it would declare a
	// truncated file a success.
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// WriteOBJ writes the mesh as OBJ text. When the mesh carries UVs, one vt per
// vertex is emitted and faces reference it (v/vt), so the UV layout survives a
// round trip through any OBJ-aware tool.
func WriteOBJ(m *Mesh, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	hasUVs := len(m.UVs) == len(m.Vertices) && len(m.Vertices) > 0
	if hasUVs {
		for _, uv := range m.UVs {
			fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
		}
	}
	for _, t := range m.Triangles {
		if hasUVs {
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", t[0]+1, t[0]+1, t[1]+1, t[1]+1, t[2]+1, t[2]+1)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
		}
	}
	return bw.Flush()
}
