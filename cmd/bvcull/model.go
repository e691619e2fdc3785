package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akmonengine/bvcull/asset"
	"github.com/akmonengine/bvcull/bvh"
	"github.com/go-gl/mathgl/mgl64"
)

// loadModel reads an obj or xml model depending on the file extension.
func loadModel(path string, opts ...bvh.Option) (*asset.Model, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return asset.ReadOBJFile(path, opts...)
	case ".xml":
		return asset.LoadModelFile(path, opts...)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
}

func modelArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected a single model file argument")
	}
	return args[0], nil
}

// unitCube is the model culled when none is given.
func unitCube() (*asset.Model, error) {
	positions := []mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		3, 7, 6, 3, 6, 2,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	}
	return asset.NewModel("cube", positions, indices)
}

func formatVec3(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X(), v.Y(), v.Z())
}
