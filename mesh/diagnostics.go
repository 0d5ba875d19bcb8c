// Copyright (c) 2025 The xtree authors
// SPDX-License-Identifier: MIT

package mesh

import "math"

type edgeKey [2]uint64

func makeEdgeKey(a, b uint64) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// edgeTriangles maps each undirected edge to the triangles it borders.
func (m *Mesh) edgeTriangles() map[edgeKey][]int {
	out := make(map[edgeKey][]int)
	for ti, t := range m.Triangles {
		for i := 0; i < 3; i++ {
			k := makeEdgeKey(t[i], t[(i+1)%3])
			out[k] = append(out[k], ti)
		}
	}
	return out
}

// EulerCharacteristic returns V - E + F over the mesh's vertex/edge/face
// counts, counting only vertices actually referenced by a triangle (spec
// §8, used to check a closed genus-0 surface has chi == 2).
func (m *Mesh) EulerCharacteristic() int {
	verts := make(map[uint64]bool)
	for _, t := range m.Triangles {
		verts[t[0]] = true
		verts[t[1]] = true
		verts[t[2]] = true
	}
	edges := m.edgeTriangles()
	return len(verts) - len(edges) + len(m.Triangles)
}

// Watertight reports whether every edge borders exactly two triangles,
// i.e. the mesh has no boundary and no non-manifold edge.
func (m *Mesh) Watertight() bool {
	for _, tris := range m.edgeTriangles() {
		if len(tris) != 2 {
			return false
		}
	}
	return len(m.Triangles) > 0
}

func (m *Mesh) normal(t [3]uint64) Vec3 {
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	n := cross3(sub3(b, a), sub3(c, a))
	length := math.Sqrt(dot3(n, n))
	if length == 0 {
		return Vec3{}
	}
	return Vec3{n[0] / length, n[1] / length, n[2] / length}
}

// SharpEdge names a mesh edge whose two adjacent faces meet at a dihedral
// angle at or beyond a caller-supplied threshold.
type SharpEdge struct {
	A, B        uint64
	AngleRadian float64
}

// DihedralAngles reports every edge whose two bordering triangles' normals
// meet at an angle >= thresholdRadian, the sharp-feature detection spec §6
// calls out as something a consumer of the mesh may want (e.g. to decide
// which edges to keep crisp rather than smooth-shade). Non-manifold edges
// (not bordering exactly two triangles) are skipped.
func (m *Mesh) DihedralAngles(thresholdRadian float64) []SharpEdge {
	var out []SharpEdge
	for k, tris := range m.edgeTriangles() {
		if len(tris) != 2 {
			continue
		}
		n1 := m.normal(m.Triangles[tris[0]])
		n2 := m.normal(m.Triangles[tris[1]])
		cos := dot3(n1, n2)
		if cos > 1 {
			cos = 1
		} else if cos < -1 {
			cos = -1
		}
		angle := math.Acos(cos)
		if angle >= thresholdRadian {
			out = append(out, SharpEdge{A: k[0], B: k[1], AngleRadian: angle})
		}
	}
	return out
}
