package asset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akmonengine/bvcull/bvh"
	"github.com/go-gl/mathgl/mgl64"
)

type wavefrontReader struct {
	file string
	name string

	vertexList []mgl64.Vec3
	normalList []mgl64.Vec3
	uvList     []mgl64.Vec2

	positions []mgl64.Vec3
	normals   []mgl64.Vec3
	uvs       []mgl64.Vec2
	hasNormal bool
	hasUV     bool
}

// ReadOBJFile reads a Wavefront OBJ mesh from path.
func ReadOBJFile(path string, opts ...bvh.Option) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadOBJ(f, path, opts...)
}

// ReadOBJ reads the faces of a Wavefront OBJ stream into a single model.
// Triangles and quads are supported; quads are split along their 0-2
// diagonal. Every face corner becomes its own vertex. file is only used in
// error messages and as the default model name.
func ReadOBJ(r io.Reader, file string, opts ...bvh.Option) (*Model, error) {
	rd := &wavefrontReader{file: file, name: file}
	if err := rd.parse(r); err != nil {
		return nil, err
	}
	if len(rd.positions) == 0 {
		return nil, rd.emitError(0, "no faces defined")
	}

	m := &Model{Name: rd.name, Positions: rd.positions}
	if rd.hasNormal {
		m.Normals = rd.normals
	}
	if rd.hasUV {
		m.TexCoords = rd.uvs
	}

	if err := m.ComputeBounds(); err != nil {
		return nil, err
	}
	if err := m.BuildTree(opts...); err != nil {
		return nil, err
	}

	logger.Infof("read %q: %d vertices, %d triangles", m.Name, len(rd.vertexList), len(rd.positions)/3)
	return m, nil
}

// emitError prefixes msg with the file and line it refers to.
func (r *wavefrontReader) emitError(line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	if r.file == "" {
		return fmt.Errorf("error: %s", msg)
	}
	return fmt.Errorf("[%s: %d] error: %s", r.file, line, msg)
}

func (r *wavefrontReader) parse(in io.Reader) error {
	lineNum := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(lineNum, "%s", err)
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(lineNum, "%s", err)
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(lineNum, "%s", err)
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) != 2 {
				return r.emitError(lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			r.name = lineTokens[1]
		case "f":
			if err := r.parseFace(lineTokens); err != nil {
				return r.emitError(lineNum, "%s", err)
			}
		}
	}

	return scanner.Err()
}

func (r *wavefrontReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d`, len(lineTokens)-1)
	}

	var (
		vertices [4]mgl64.Vec3
		normals  [4]mgl64.Vec3
		uvs      [4]mgl64.Vec2
	)
	expIndices := 0
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}
		offset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList))
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err)
		}
		vertices[arg] = r.vertexList[offset]

		if expIndices > 1 && vTokens[1] != "" {
			offset, err = selectFaceCoordIndex(vTokens[1], len(r.uvList))
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err)
			}
			uvs[arg] = r.uvList[offset]
			r.hasUV = true
		}

		if expIndices > 2 && vTokens[2] != "" {
			offset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList))
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err)
			}
			normals[arg] = r.normalList[offset]
			r.hasNormal = true
		}
	}

	corners := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		corners = append(corners, [3]int{0, 2, 3})
	}
	for _, tri := range corners {
		for _, c := range tri {
			r.positions = append(r.positions, vertices[c])
			r.normals = append(r.normals, normals[c])
			r.uvs = append(r.uvs, uvs[c])
		}
	}

	return nil
}

// selectFaceCoordIndex resolves a 1-based, or negative relative, OBJ index
// into an offset in a list of coordListLen entries.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return offset, nil
}

func parseVec2(lineTokens []string) (mgl64.Vec2, error) {
	if len(lineTokens) < 3 {
		return mgl64.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var v mgl64.Vec2
	for i := 0; i < 2; i++ {
		coord, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return v, err
		}
		v[i] = coord
	}
	return v, nil
}

func parseVec3(lineTokens []string) (mgl64.Vec3, error) {
	if len(lineTokens) < 4 {
		return mgl64.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		coord, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return v, err
		}
		v[i] = coord
	}
	return v, nil
}
