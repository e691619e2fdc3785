package asset

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akmonengine/bvcull/bvh"
	"github.com/akmonengine/bvcull/volume"
	"github.com/go-gl/mathgl/mgl64"
)

type xmlVec3 struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

func (v xmlVec3) vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func toXMLVec3(v mgl64.Vec3) xmlVec3 {
	return xmlVec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

type xmlModel struct {
	XMLName         xml.Name
	Name            string      `xml:"name,attr"`
	Geometry        xmlGeometry `xml:"Geometry"`
	BoundingVolumes *xmlBounds  `xml:"BoundingVolumes"`
	MassInfo        *xmlMass    `xml:"MassInfo"`
}

type xmlGeometry struct {
	NumVertices int     `xml:"numVertices,attr"`
	NumIndices  int     `xml:"numIndices,attr"`
	Positions   string  `xml:"Positions"`
	TexCoords   *string `xml:"Texture_coords"`
	Normals     *string `xml:"Normals"`
	Indices     *string `xml:"Indices"`
}

type xmlBounds struct {
	Sphere *xmlSphere `xml:"BSphere"`
	AABB   *xmlAABB   `xml:"AABB"`
	OBB    *xmlOBB    `xml:"OBB"`
}

type xmlRadius struct {
	Radius float64 `xml:"radius,attr"`
}

type xmlSphere struct {
	Center xmlVec3   `xml:"center"`
	Radius xmlRadius `xml:"radius"`
}

type xmlAABB struct {
	Center      xmlVec3 `xml:"center"`
	HalfExtents xmlVec3 `xml:"halfextents"`
}

type xmlOBB struct {
	U           xmlVec3 `xml:"u"`
	V           xmlVec3 `xml:"v"`
	W           xmlVec3 `xml:"w"`
	Center      xmlVec3 `xml:"center"`
	HalfExtents xmlVec3 `xml:"halfextents"`
}

type xmlMass struct {
	Mass          float64   `xml:"mass,attr"`
	CenterOfMass  xmlVec3   `xml:"CenterOfMass"`
	InertiaTensor xmlTensor `xml:"InertiaTensor"`
}

// xmlTensor stores a 3x3 matrix row by row in attributes a to i.
type xmlTensor struct {
	A float64 `xml:"a,attr"`
	B float64 `xml:"b,attr"`
	C float64 `xml:"c,attr"`
	D float64 `xml:"d,attr"`
	E float64 `xml:"e,attr"`
	F float64 `xml:"f,attr"`
	G float64 `xml:"g,attr"`
	H float64 `xml:"h,attr"`
	I float64 `xml:"i,attr"`
}

// LoadModelFile reads an XML model from path.
func LoadModelFile(path string, opts ...bvh.Option) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := LoadModel(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", path, err)
	}
	return m, nil
}

// LoadModel decodes an XML model. Bounding volumes stored in the file are
// used as is; missing ones are computed from the geometry. The hierarchy is
// always built from the indexed positions.
func LoadModel(r io.Reader, opts ...bvh.Option) (*Model, error) {
	var doc xmlModel
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("asset: decode model: %w", err)
	}

	m, err := doc.model()
	if err != nil {
		return nil, err
	}

	missing := AllBounds
	if bv := doc.BoundingVolumes; bv != nil {
		if bv.Sphere != nil {
			m.Sphere = volume.Sphere{Center: bv.Sphere.Center.vec3(), Radius: bv.Sphere.Radius.Radius}
			missing &^= BoundSphere
		}
		if bv.AABB != nil {
			m.AABB = volume.AABB{Center: bv.AABB.Center.vec3(), HalfExtents: bv.AABB.HalfExtents.vec3()}
			missing &^= BoundAABB
		}
		if bv.OBB != nil {
			m.OBB = volume.OBB{
				U:           bv.OBB.U.vec3(),
				V:           bv.OBB.V.vec3(),
				W:           bv.OBB.W.vec3(),
				Center:      bv.OBB.Center.vec3(),
				HalfExtents: bv.OBB.HalfExtents.vec3(),
			}
			missing &^= BoundOBB
		}
	}

	if err := m.ComputeBoundsOf(missing); err != nil {
		return nil, err
	}

	if err := m.BuildTree(opts...); err != nil {
		return nil, err
	}

	return m, nil
}

func (doc *xmlModel) model() (*Model, error) {
	g := doc.Geometry
	m := &Model{Name: doc.Name}

	values, err := parseFloats("Positions", g.Positions, 3*g.NumVertices)
	if err != nil {
		return nil, err
	}
	m.Positions = make([]mgl64.Vec3, g.NumVertices)
	for i := range m.Positions {
		m.Positions[i] = mgl64.Vec3{values[3*i], values[3*i+1], values[3*i+2]}
	}

	if g.TexCoords != nil {
		values, err := parseFloats("Texture_coords", *g.TexCoords, 2*g.NumVertices)
		if err != nil {
			return nil, err
		}
		m.TexCoords = make([]mgl64.Vec2, g.NumVertices)
		for i := range m.TexCoords {
			m.TexCoords[i] = mgl64.Vec2{values[2*i], values[2*i+1]}
		}
	}

	if g.Normals != nil {
		values, err := parseFloats("Normals", *g.Normals, 3*g.NumVertices)
		if err != nil {
			return nil, err
		}
		m.Normals = make([]mgl64.Vec3, g.NumVertices)
		for i := range m.Normals {
			m.Normals[i] = mgl64.Vec3{values[3*i], values[3*i+1], values[3*i+2]}
		}
	}

	if g.Indices != nil {
		tokens := strings.Fields(*g.Indices)
		if len(tokens) != g.NumIndices {
			return nil, fmt.Errorf("asset: Indices: expected %d values, got %d", g.NumIndices, len(tokens))
		}
		m.Indices = make([]uint32, len(tokens))
		for i, tok := range tokens {
			idx, err := strconv.ParseUint(tok, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("asset: Indices: value %d: %w", i, err)
			}
			m.Indices[i] = uint32(idx)
		}
	}

	if doc.MassInfo != nil {
		it := doc.MassInfo.InertiaTensor
		m.Mass = &MassInfo{
			Mass:         doc.MassInfo.Mass,
			CenterOfMass: doc.MassInfo.CenterOfMass.vec3(),
			InertiaTensor: mgl64.Mat3FromRows(
				mgl64.Vec3{it.A, it.B, it.C},
				mgl64.Vec3{it.D, it.E, it.F},
				mgl64.Vec3{it.G, it.H, it.I},
			),
		}
	}

	return m, nil
}

func parseFloats(element, content string, expected int) ([]float64, error) {
	tokens := strings.Fields(content)
	if len(tokens) != expected {
		return nil, fmt.Errorf("asset: %s: expected %d values, got %d", element, expected, len(tokens))
	}

	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("asset: %s: value %d: %w", element, i, err)
		}
		values[i] = v
	}

	return values, nil
}

// WriteModel encodes m in the XML model format, including its bounding
// volumes so they need not be recomputed on load.
func WriteModel(w io.Writer, m *Model) error {
	doc := xmlModel{
		XMLName: xml.Name{Local: "Model"},
		Name:    m.Name,
		Geometry: xmlGeometry{
			NumVertices: len(m.Positions),
			NumIndices:  len(m.Indices),
			Positions:   formatVec3s(m.Positions),
		},
		BoundingVolumes: &xmlBounds{
			Sphere: &xmlSphere{Center: toXMLVec3(m.Sphere.Center), Radius: xmlRadius{m.Sphere.Radius}},
			AABB:   &xmlAABB{Center: toXMLVec3(m.AABB.Center), HalfExtents: toXMLVec3(m.AABB.HalfExtents)},
			OBB: &xmlOBB{
				U:           toXMLVec3(m.OBB.U),
				V:           toXMLVec3(m.OBB.V),
				W:           toXMLVec3(m.OBB.W),
				Center:      toXMLVec3(m.OBB.Center),
				HalfExtents: toXMLVec3(m.OBB.HalfExtents),
			},
		},
	}

	if m.TexCoords != nil {
		parts := make([]string, 0, 2*len(m.TexCoords))
		for _, tc := range m.TexCoords {
			parts = append(parts, formatFloat(tc.X()), formatFloat(tc.Y()))
		}
		s := strings.Join(parts, " ")
		doc.Geometry.TexCoords = &s
	}
	if m.Normals != nil {
		s := formatVec3s(m.Normals)
		doc.Geometry.Normals = &s
	}
	if m.Indices != nil {
		parts := make([]string, len(m.Indices))
		for i, idx := range m.Indices {
			parts[i] = strconv.FormatUint(uint64(idx), 10)
		}
		s := strings.Join(parts, " ")
		doc.Geometry.Indices = &s
	}
	if m.Mass != nil {
		it := m.Mass.InertiaTensor
		doc.MassInfo = &xmlMass{
			Mass:         m.Mass.Mass,
			CenterOfMass: toXMLVec3(m.Mass.CenterOfMass),
			InertiaTensor: xmlTensor{
				A: it.At(0, 0), B: it.At(0, 1), C: it.At(0, 2),
				D: it.At(1, 0), E: it.At(1, 1), F: it.At(1, 2),
				G: it.At(2, 0), H: it.At(2, 1), I: it.At(2, 2),
			},
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("asset: encode model %q: %w", m.Name, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatVec3s(vs []mgl64.Vec3) string {
	parts := make([]string, 0, 3*len(vs))
	for _, v := range vs {
		parts = append(parts, formatFloat(v.X()), formatFloat(v.Y()), formatFloat(v.Z()))
	}
	return strings.Join(parts, " ")
}
