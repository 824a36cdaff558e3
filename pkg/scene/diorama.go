package scene

import (
	"github.com/pvera/blocktracer/pkg/core"
	"github.com/pvera/blocktracer/pkg/geometry"
	"github.com/pvera/blocktracer/pkg/lights"
	"github.com/pvera/blocktracer/pkg/material"
)

// NewDiorama builds the voxel diorama: a grass field with a small log
// cabin, glass windows, a wood pile, trees, a stone path and a lantern
// by the door. Cube positions use unit blocks on integer coordinates.
func NewDiorama() *Scene {
	s := New()

	grass := material.New(core.NewVec3(0.3, 0.62, 0.25))
	stone := material.New(core.NewVec3(0.55, 0.55, 0.58)).WithSpecular(0.3, 32)
	wall := material.New(core.NewVec3(0.62, 0.45, 0.28)).WithSpecular(0.1, 16)
	wood := material.New(core.NewVec3(0.4, 0.28, 0.16)).WithSpecular(0.2, 24)
	leaves := material.New(core.NewVec3(0.2, 0.45, 0.15))
	glass := material.New(core.NewVec3(0.8, 0.9, 1.0)).
		WithTransparency(0.7, 1.5).
		WithReflectivity(0.1).
		WithSpecular(0.8, 64)
	lanternGlow := material.New(core.NewVec3(1.0, 0.85, 0.5)).
		WithEmissive(core.NewVec3(1.0, 0.75, 0.35))

	// Grass field, leaving room for the stone path blocks
	for x := -10; x < 10; x++ {
		for z := -10; z < 10; z++ {
			if x == 2 && z >= -5 && z <= -1 {
				continue
			}
			s.addBlock(x, -1, z, grass)
		}
	}

	buildCabin(s, wall, wood, stone, glass)
	buildWoodPile(s, wood)
	buildTrees(s, wood, leaves)
	buildStonePath(s, stone)

	// Lantern by the door, with its light floating just above the glow
	// block so the block itself does not shadow the whole yard
	s.addBlock(4, 0, -1, lanternGlow)
	s.AddPointLight(lights.NewPoint(
		core.NewVec3(4.5, 1.3, -0.5),
		core.NewVec3(1.0, 0.75, 0.35),
		2.0,
		12.0,
	))

	return s
}

func (s *Scene) addBlock(x, y, z int, mat material.Material) {
	center := core.NewVec3(float64(x)+0.5, float64(y)+0.5, float64(z)+0.5)
	s.Add(geometry.NewCube(center, 1.0, mat))
}

func buildCabin(s *Scene, wall, wood, stone, glass material.Material) {
	const (
		width  = 5
		depth  = 6
		height = 4
	)

	// Stone foundation
	for x := 0; x < width; x++ {
		for z := 0; z < depth; z++ {
			s.addBlock(x, 0, z, stone)
		}
	}

	for y := 1; y < height; y++ {
		// Front wall with a door gap
		for x := 0; x < width; x++ {
			if y <= 2 && x == 2 {
				continue
			}
			s.addBlock(x, y, 0, wall)
		}
		// Back wall with glass windows
		for x := 0; x < width; x++ {
			if y == 2 && (x == 1 || x == 3) {
				s.addBlock(x, y, depth-1, glass)
			} else {
				s.addBlock(x, y, depth-1, wall)
			}
		}
		// Side walls
		for z := 1; z < depth-1; z++ {
			if y == 2 && z == 3 {
				s.addBlock(0, y, z, glass)
				s.addBlock(width-1, y, z, glass)
			} else {
				s.addBlock(0, y, z, wall)
				s.addBlock(width-1, y, z, wall)
			}
		}
	}

	// Flat stone roof with a one-block overhang
	for x := -1; x <= width; x++ {
		for z := -1; z <= depth; z++ {
			s.addBlock(x, height, z, stone)
		}
	}

	// Wooden door
	s.addBlock(2, 1, 0, wood)
	s.addBlock(2, 2, 0, wood)
}

func buildWoodPile(s *Scene, wood material.Material) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			s.addBlock(7+i, 0, 1+j, wood)
		}
	}
	s.addBlock(7, 1, 1, wood)
	s.addBlock(8, 1, 1, wood)
}

func buildTrees(s *Scene, trunk, leaves material.Material) {
	positions := [][2]int{{-6, -6}, {7, -5}, {-5, 6}}

	for _, pos := range positions {
		x, z := pos[0], pos[1]
		for y := 0; y < 3; y++ {
			s.addBlock(x, y, z, trunk)
		}
		for dx := -1; dx <= 1; dx++ {
			for dz := -1; dz <= 1; dz++ {
				s.addBlock(x+dx, 3, z+dz, leaves)
				if dx == 0 || dz == 0 {
					s.addBlock(x+dx, 4, z+dz, leaves)
				}
			}
		}
	}
}

func buildStonePath(s *Scene, stone material.Material) {
	for step := 1; step < 6; step++ {
		s.addBlock(2, -1, -step, stone)
	}
}
