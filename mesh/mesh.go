// Package mesh decodes polygon mesh files into triangle geometry and
// exports geometry for the browser viewer.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is an indexed triangle list.
type Geometry struct {
	Positions []mgl32.Vec3
	// Normals is either empty or has one entry per position.
	Normals []mgl32.Vec3
	Indices []uint32
}

func (g *Geometry) TrianglesCount() int {
	return len(g.Indices) / 3
}

func (g *Geometry) Empty() bool {
	return len(g.Positions) == 0
}

// Bounds returns the axis aligned box around all positions.
// ok is false for empty geometry.
func (g *Geometry) Bounds() (bbox BBox, ok bool) {
	if g.Empty() {
		return BBox{}, false
	}
	bbox = BBox{Min: g.Positions[0], Max: g.Positions[0]}
	for _, p := range g.Positions[1:] {
		bbox.ExpandToPoint(p)
	}
	return bbox, true
}

// Append merges other into g, rebasing its indices.
func (g *Geometry) Append(other *Geometry) {
	base := uint32(len(g.Positions))
	if len(other.Normals) != len(other.Positions) || len(g.Normals) != len(g.Positions) {
		g.Normals = nil
	} else {
		g.Normals = append(g.Normals, other.Normals...)
	}
	g.Positions = append(g.Positions, other.Positions...)
	for _, i := range other.Indices {
		g.Indices = append(g.Indices, i+base)
	}
}

type BBox struct {
	Min, Max mgl32.Vec3
}

func (b *BBox) ExpandToPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

func (b *BBox) Expand(other BBox) {
	b.ExpandToPoint(other.Min)
	b.ExpandToPoint(other.Max)
}

func (b BBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Radius of the bounding sphere around Center.
func (b BBox) Radius() float32 {
	return b.Max.Sub(b.Min).Len() * 0.5
}
