package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/meshflat/pkg/geometry"
	"github.com/philipparndt/meshflat/pkg/mesh"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoUV is returned when the flattened mesh has no UV channel
var ErrNoUV = errors.New("mesh has no UV coordinates")

// Summary holds basic statistics of a per-triangle quantity
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}

// DistortionReport compares a surface with its parameterization
type DistortionReport struct {
	// AreaRatio is UV area over surface area per triangle, normalized so a
	// uniform scale yields 1.
	AreaRatio Summary

	// AngleError is the absolute corner angle difference in radians
	AngleError Summary

	// Flipped counts triangles whose UV orientation disagrees with the
	// majority.
	Flipped    int
	Degenerate int
	UVArea     float64
}

// Distortion measures how much the UV channel of flat deviates from the
// geometry of surface. Both meshes must share the same faces.
func Distortion(surface, flat *mesh.Mesh) (*DistortionReport, error) {
	if !flat.HasUV() {
		return nil, ErrNoUV
	}
	if len(surface.Faces) != len(flat.Faces) || len(surface.Vertices) != len(flat.Vertices) {
		return nil, fmt.Errorf("meshes differ: %d/%d faces, %d/%d vertices",
			len(surface.Faces), len(flat.Faces), len(surface.Vertices), len(flat.Vertices))
	}

	report := &DistortionReport{}
	areas := make([]float64, 0, len(surface.Faces))
	uvAreas := make([]float64, 0, len(surface.Faces))
	angleErrors := make([]float64, 0, 3*len(surface.Faces))
	positive, negative := 0, 0

	for i, f := range surface.Faces {
		area := surface.Triangle(i).Area()
		a, b, c := flat.UV[f[0]], flat.UV[f[1]], flat.UV[f[2]]
		signed := geometry.SignedArea2D(a, b, c)

		if area == 0 || signed == 0 {
			report.Degenerate++
			continue
		}
		if signed > 0 {
			positive++
		} else {
			negative++
		}

		areas = append(areas, area)
		uvAreas = append(uvAreas, math.Abs(signed))

		angles3D := surface.Triangle(i).Angles()
		anglesUV := uvAngles(a, b, c)
		for k := range angles3D {
			angleErrors = append(angleErrors, math.Abs(angles3D[k]-anglesUV[k]))
		}
	}

	report.Flipped = min(positive, negative)
	report.UVArea = floats.Sum(uvAreas)

	if total := floats.Sum(areas); total > 0 && report.UVArea > 0 {
		scale := total / report.UVArea
		ratios := make([]float64, len(areas))
		for i := range areas {
			ratios[i] = uvAreas[i] * scale / areas[i]
		}
		report.AreaRatio = summarize(ratios)
	}
	report.AngleError = summarize(angleErrors)
	return report, nil
}

func uvAngles(a, b, c geometry.Vector2) [3]float64 {
	lift := func(p geometry.Vector2) geometry.Vector3 {
		return geometry.NewVector3(p.X, p.Y, 0)
	}
	return geometry.NewTriangle(geometry.Vector3{}, lift(a), lift(b), lift(c)).Angles()
}
