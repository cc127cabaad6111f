package models

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tannenbaum/pkg/math3d"
	"github.com/taigrr/tannenbaum/pkg/render"
)

// faceNormal follows the clockwise front-face convention.
func faceNormal(m *Mesh, f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v2.Sub(v0).Cross(v1.Sub(v0))
}

func checkOutward(t *testing.T, m *Mesh) {
	t.Helper()
	for i, f := range m.Faces {
		n := faceNormal(m, f)
		if n.Len() < 1e-12 {
			t.Fatalf("%s face %d is degenerate", m.Name, i)
		}
		vn := m.Vertices[f.V[0]].Normal.Add(m.Vertices[f.V[1]].Normal).Add(m.Vertices[f.V[2]].Normal)
		if n.Dot(vn) <= 0 {
			t.Fatalf("%s face %d winds against its normals", m.Name, i)
		}
	}
}

func TestPrimitivesWindOutward(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		triangles int
	}{
		{"sphere", UVSphere(1, 16, 8), 16*8*2 - 2*16},
		{"box", Box(math3d.V3(1, 2, 3), math3d.V3(0, -0.5, 0)), 12},
		{"quad", Quad(0.6, 0.78), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.mesh.TriangleCount(); got != tc.triangles {
				t.Errorf("TriangleCount = %d, want %d", got, tc.triangles)
			}
			checkOutward(t, tc.mesh)
		})
	}
}

func TestUVSphereGeometry(t *testing.T) {
	m := UVSphere(2, 12, 6)
	for i, v := range m.Vertices {
		if math.Abs(v.Position.Len()-2) > 1e-9 {
			t.Fatalf("vertex %d at radius %v", i, v.Position.Len())
		}
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Fatalf("vertex %d normal not unit", i)
		}
	}
	lo, hi := m.GetBounds()
	if math.Abs(hi.Y-2) > 1e-9 || math.Abs(lo.Y+2) > 1e-9 {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
}

func TestBoxBoundsAndOffset(t *testing.T) {
	m := Box(math3d.V3(1, 1, 1), math3d.V3(0, -0.5, 0))
	if m.BoundsMin != math3d.V3(-0.5, -1, -0.5) || m.BoundsMax != math3d.V3(0.5, 0, 0.5) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
	if m.VertexCount() != 24 {
		t.Errorf("VertexCount = %d, want 24", m.VertexCount())
	}

	thin := Box(math3d.V3(0.72, 0.9, 0.05), math3d.V3(0, 0, -0.05))
	if s := thin.Size(); math.Abs(s.Z-0.05) > 1e-12 || math.Abs(thin.Center().Z+0.05) > 1e-12 {
		t.Errorf("thin box size %v centre %v", s, thin.Center())
	}
}

func TestQuadTextureCoordinates(t *testing.T) {
	m := Quad(2, 1)
	for _, v := range m.Vertices {
		wantU := 0.0
		if v.Position.X > 0 {
			wantU = 1
		}
		wantV := 0.0
		if v.Position.Y > 0 {
			wantV = 1
		}
		if v.UV != math3d.V2(wantU, wantV) {
			t.Errorf("vertex %v has uv %v", v.Position, v.UV)
		}
	}
}

func TestFitCentresAndScales(t *testing.T) {
	m := Box(math3d.V3(4, 2, 1), math3d.V3(10, 10, 10))
	m.Fit(2)

	if c := m.Center(); c.Len() > 1e-9 {
		t.Errorf("centre = %v, want origin", c)
	}
	if s := m.Size(); math.Abs(s.X-2) > 1e-9 || math.Abs(s.Y-1) > 1e-9 {
		t.Errorf("size = %v, want (2, 1, 0.5)", s)
	}
	checkOutward(t, m)

	empty := NewMesh("empty")
	empty.Fit(2)
	if empty.VertexCount() != 0 {
		t.Error("fitting an empty mesh should leave it empty")
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := Quad(1, 1)
	c := m.Clone()
	c.Transform(math3d.Translate(math3d.V3(0, 0, 3)))
	if m.Vertices[0].Position.Z != 0 {
		t.Error("transforming a clone must not modify the source mesh")
	}
	if c.BoundsMin.Z != 3 {
		t.Errorf("translated bounds = %v", c.BoundsMin)
	}
}

func TestSmoothNormalsMatchWinding(t *testing.T) {
	m := UVSphere(1, 10, 6)
	want := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		want[i] = v.Normal
	}
	m.CalculateSmoothNormals()
	for i, v := range m.Vertices {
		if v.Normal.Dot(want[i]) < 0.9 {
			t.Fatalf("vertex %d smooth normal %v, want about %v", i, v.Normal, want[i])
		}
	}
}

func TestPrimitivesRenderFrontOnly(t *testing.T) {
	fb := render.NewFramebuffer(40, 40)
	cam := render.NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.SetAspectRatio(1)
	r := render.NewRasterizer(cam, fb)
	r.Lights = &render.Lighting{Ambient: 1}
	mat := render.Material{Color: render.RGB(200, 0, 0)}

	lit := func() int {
		n := 0
		for _, c := range fb.Pixels {
			if c.R > 0 {
				n++
			}
		}
		return n
	}

	fb.Clear(render.RGB(0, 0, 0))
	r.ClearDepth()
	r.DrawMesh(Quad(2, 2), math3d.Identity(), mat)
	if lit() == 0 {
		t.Fatal("a quad facing the camera should be drawn")
	}

	fb.Clear(render.RGB(0, 0, 0))
	r.ClearDepth()
	r.DrawMesh(Quad(2, 2), math3d.RotateY(math.Pi), mat)
	if n := lit(); n != 0 {
		t.Errorf("a quad facing away should be culled, %d pixels lit", n)
	}

	fb.Clear(render.RGB(0, 0, 0))
	r.ClearDepth()
	r.DrawMesh(UVSphere(1, 16, 8), math3d.Identity(), mat)
	if c := fb.GetPixel(20, 20); c.R == 0 {
		t.Error("sphere centre should be covered")
	}
}

func writeTriangleGLB(t *testing.T, withNormals bool) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {4, 0, 0}, {0, 2, 0}})
	attrs := map[string]int{gltf.POSITION: pos}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Indices: &idx, Attributes: attrs}},
	}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}
	return path
}

func TestLoadBody(t *testing.T) {
	for _, withNormals := range []bool{true, false} {
		m, err := LoadBody(writeTriangleGLB(t, withNormals))
		if err != nil {
			t.Fatalf("LoadBody(normals=%v): %v", withNormals, err)
		}
		if m.TriangleCount() != 1 || m.VertexCount() != 3 {
			t.Fatalf("loaded %d faces, %d vertices", m.TriangleCount(), m.VertexCount())
		}
		if s := m.Size(); math.Abs(s.X-2) > 1e-6 || math.Abs(s.Y-1) > 1e-6 {
			t.Errorf("size = %v, want 2 x 1", s)
		}
		// counter-clockwise in the file, facing +Z
		checkOutward(t, m)
	}
}

func TestLoadBodyInvalidPath(t *testing.T) {
	if _, err := LoadBody("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadBodyRejectsDanglingAccessors(t *testing.T) {
	tests := []struct {
		name  string
		build func(doc *gltf.Document) *gltf.Primitive
	}{
		{"position", func(doc *gltf.Document) *gltf.Primitive {
			return &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: 7}}
		}},
		{"normal", func(doc *gltf.Document) *gltf.Primitive {
			pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
			return &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos, gltf.NORMAL: pos + 3}}
		}},
		{"texcoord", func(doc *gltf.Document) *gltf.Primitive {
			pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
			return &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: -1}}
		}},
		{"indices", func(doc *gltf.Document) *gltf.Primitive {
			pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
			idx := pos + 9
			return &gltf.Primitive{Indices: &idx, Attributes: map[string]int{gltf.POSITION: pos}}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			doc.Meshes = []*gltf.Mesh{{Name: "broken", Primitives: []*gltf.Primitive{tc.build(doc)}}}

			path := filepath.Join(t.TempDir(), "broken.glb")
			if err := gltf.SaveBinary(doc, path); err != nil {
				t.Fatalf("save glb: %v", err)
			}

			_, err := LoadBody(path)
			if !errors.Is(err, ErrBadAccessor) {
				t.Errorf("LoadBody error = %v, want ErrBadAccessor", err)
			}
		})
	}
}

func TestGLTFLoaderDefaults(t *testing.T) {
	if !NewGLTFLoader().SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}
