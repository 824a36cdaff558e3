package scene

import (
	"math"
	"testing"

	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/geometry"
	"github.com/pvera/blocktracer/pkg/material"
)

func TestScene_ClosestHit_PicksNearest(t *testing.T) {
	s := New()
	near := material.New(core.NewVec3(1, 0, 0))
	far := material.New(core.NewVec3(0, 1, 0))

	// Insertion order must not matter for nearest-hit selection
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -10), 1.0, far),
		geometry.NewSphere(core.NewVec3(0, 0, -5), 1.0, near),
	)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, isHit := s.ClosestHit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-4.0) > 1e-9 {
		t.Errorf("Expected nearest hit at t=4, got t=%f", hit.T)
	}
	if hit.Material.Albedo != near.Albedo {
		t.Error("Expected the nearer sphere's material")
	}
}

func TestScene_ClosestHit_EmptyScene(t *testing.T) {
	s := New()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, isHit := s.ClosestHit(ray, 0.001, math.Inf(1)); isHit {
		t.Error("Expected no hit in an empty scene")
	}
}

func TestScene_IsOccluded(t *testing.T) {
	s := New()
	blocker := material.New(core.NewVec3(0.5, 0.5, 0.5))
	s.Add(geometry.NewSphere(core.NewVec3(0, 5, 0), 1.0, blocker))

	up := core.NewVec3(0, 1, 0)
	origin := core.NewVec3(0, 0, 0)

	if !s.IsOccluded(origin, up, math.Inf(1)) {
		t.Error("Expected occlusion by the sphere above")
	}

	// Occluder beyond the light distance does not count
	if s.IsOccluded(origin, up, 2.0) {
		t.Error("Expected no occlusion when the light is closer than the blocker")
	}

	// Nothing in the opposite direction
	if s.IsOccluded(origin, up.Negate(), math.Inf(1)) {
		t.Error("Expected no occlusion looking away from the sphere")
	}
}

func TestNewDiorama(t *testing.T) {
	s := NewDiorama()

	if len(s.Shapes) == 0 {
		t.Fatal("Expected the diorama to contain surfaces")
	}
	if len(s.PointLights) == 0 {
		t.Fatal("Expected the diorama to contain a lantern light")
	}

	// A ray straight down over the field must hit the grass
	ray := core.NewRay(core.NewVec3(-8.5, 5, -8.5), core.NewVec3(0, -1, 0))
	hit, isHit := s.ClosestHit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected a downward ray to hit the ground")
	}
	if hit.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected upward ground normal, got %v", hit.Normal)
	}
}

func TestNewShowcase(t *testing.T) {
	s := NewShowcase()

	if len(s.Shapes) != 4 {
		t.Errorf("Expected 4 surfaces, got %d", len(s.Shapes))
	}
	if len(s.PointLights) != 1 {
		t.Errorf("Expected 1 point light, got %d", len(s.PointLights))
	}

	// The center sphere is the mirror
	ray := core.NewRay(core.NewVec3(0, 1, 5), core.NewVec3(0, 0, -1))
	hit, isHit := s.ClosestHit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected to hit the mirror sphere")
	}
	if hit.Material.Reflectivity != 0.9 {
		t.Errorf("Expected mirror material, got reflectivity %f", hit.Material.Reflectivity)
	}
}
