package models

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tannenbaum/pkg/math3d"
)

var (
	// ErrNoGeometry is returned when a glTF document holds no triangle primitives.
	ErrNoGeometry = errors.New("no triangle geometry")

	// ErrBadAccessor is returned when a primitive refers to an accessor the
	// document does not have.
	ErrBadAccessor = errors.New("accessor out of range")
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// SmoothNormals computes averaged normals for primitives that ship
	// without a NORMAL attribute.
	SmoothNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{SmoothNormals: true}
}

// LoadBody loads a glTF or GLB file and fits it into a 2 unit cube centred
// on the origin, the footprint of a unit-radius sphere.
func LoadBody(path string) (*Mesh, error) {
	mesh, err := NewGLTFLoader().Load(path)
	if err != nil {
		return nil, err
	}
	mesh.Fit(2)
	return mesh, nil
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	missingNormals := false
	for _, m := range doc.Meshes {
		missing, err := l.processMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		missingNormals = missingNormals || missing
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, ErrNoGeometry)
	}

	if missingNormals && l.SmoothNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh appends the triangle primitives of m and reports whether any of
// them lacked normals.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (bool, error) {
	missingNormals := false
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		acr, err := accessor(doc, posIdx)
		if err != nil {
			return false, fmt.Errorf("positions: %w", err)
		}
		positions, err := modeler.ReadPosition(doc, acr, nil)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			acr, err := accessor(doc, idx)
			if err != nil {
				return false, fmt.Errorf("normals: %w", err)
			}
			normals, err = modeler.ReadNormal(doc, acr, nil)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) < len(positions) {
			missingNormals = true
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			acr, err := accessor(doc, idx)
			if err != nil {
				return false, fmt.Errorf("uvs: %w", err)
			}
			uvs, err = modeler.ReadTextureCoord(doc, acr, nil)
			if err != nil {
				return false, fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			acr, err := accessor(doc, *prim.Indices)
			if err != nil {
				return false, fmt.Errorf("indices: %w", err)
			}
			indices, err = modeler.ReadIndices(doc, acr, nil)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		// glTF front faces are counter-clockwise
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return false, fmt.Errorf("index out of range in primitive of %d vertices", len(positions))
			}
			mesh.addTriangle(base+a, base+b, base+c)
		}
	}

	return missingNormals, nil
}

// accessor looks up an accessor index read from the file.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d of %d: %w", idx, len(doc.Accessors), ErrBadAccessor)
	}
	return doc.Accessors[idx], nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
