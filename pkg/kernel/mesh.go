package kernel

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Mesh is a triangle mesh suitable for preview or export.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which generated member this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// EncodeSTL writes the mesh as a binary STL file. The mesh already
// holds tessellated triangles, so no renderer round trip is needed.
func (m *Mesh) EncodeSTL(w io.Writer) error {
	var header [80]byte
	copy(header[:], m.PartName)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	count := uint32(m.TriangleCount())
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}

	for t := 0; t < int(count); t++ {
		i0, i1, i2 := m.Indices[t*3], m.Indices[t*3+1], m.Indices[t*3+2]
		// Per-vertex normals are flat shaded here, so the first vertex's
		// normal doubles as the facet normal.
		rec := make([]float32, 0, 12)
		rec = append(rec, m.Normals[i0*3], m.Normals[i0*3+1], m.Normals[i0*3+2])
		for _, idx := range []uint32{i0, i1, i2} {
			rec = append(rec, m.Vertices[idx*3], m.Vertices[idx*3+1], m.Vertices[idx*3+2])
		}
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return err
		}
		// Attribute byte count, always zero.
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the mesh's internal consistency before export.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 || len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh %q has inconsistent vertex and normal arrays", m.PartName)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q has a partial triangle", m.PartName)
	}
	verts := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= verts {
			return fmt.Errorf("mesh %q references vertex %d of %d", m.PartName, idx, verts)
		}
	}
	return nil
}
