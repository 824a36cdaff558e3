package renderer

import (
	"math"

	"github.com/pvera/blocktracer/pkg/core"
)

// CameraConfig describes a camera placement
type CameraConfig struct {
	Position core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
	Aspect   float64 // Width over height
}

// DefaultCameraConfig frames the diorama from a raised three-quarter view
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(11, 7, 14),
		LookAt:   core.NewVec3(2, 1, 2),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     70,
		Aspect:   800.0 / 600.0,
	}
}

// ShowcaseCameraPosition and ShowcaseCameraTarget frame the material
// showcase scene head on.
var (
	ShowcaseCameraPosition = core.NewVec3(0, 2.5, 8)
	ShowcaseCameraTarget   = core.NewVec3(0, 1, 0)
)

// Camera generates primary rays from a position, look-at target and up
// vector. The orbital helpers mutate the placement; callers must only
// use them between frames.
type Camera struct {
	config     CameraConfig
	forward    core.Vec3
	right      core.Vec3
	up         core.Vec3
	halfWidth  float64
	halfHeight float64
}

// NewCamera creates a camera from the given placement. Degenerate
// configurations (zero view direction, up parallel to it, non-positive
// field of view) are nudged to the nearest usable values.
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{config: config}
	c.rebuild()
	return c
}

// Config returns the current camera placement
func (c *Camera) Config() CameraConfig {
	return c.config
}

// rebuild derives the orthonormal basis and viewport extents
func (c *Camera) rebuild() {
	if c.config.VFov <= 0 || c.config.VFov >= 180 {
		c.config.VFov = 70
	}
	if c.config.Aspect <= 0 {
		c.config.Aspect = 4.0 / 3.0
	}

	forward := c.config.LookAt.Subtract(c.config.Position).Normalize()
	if forward == (core.Vec3{}) {
		forward = core.NewVec3(0, 0, -1)
	}

	worldUp := c.config.Up.Normalize()
	if worldUp == (core.Vec3{}) {
		worldUp = core.NewVec3(0, 1, 0)
	}

	right := forward.Cross(worldUp).Normalize()
	if right == (core.Vec3{}) {
		// Looking straight along the up axis, pick any horizontal right
		right = core.NewVec3(1, 0, 0)
	}

	c.forward = forward
	c.right = right
	c.up = right.Cross(forward)
	c.halfHeight = math.Tan(c.config.VFov * math.Pi / 360)
	c.halfWidth = c.config.Aspect * c.halfHeight
}

// GetRay generates the primary ray for viewport coordinates (u, v) in
// [0,1], with v=0 at the top of the image.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.forward.
		Add(c.right.Multiply((2*u - 1) * c.halfWidth)).
		Add(c.up.Multiply((1 - 2*v) * c.halfHeight))

	return core.NewRay(c.config.Position, direction.Normalize())
}

// Orbit rotates the camera horizontally around its look-at target by the
// given angle in degrees.
func (c *Camera) Orbit(degrees float64) {
	offset := c.config.Position.Subtract(c.config.LookAt)
	angle := degrees * math.Pi / 180
	sin, cos := math.Sin(angle), math.Cos(angle)

	rotated := core.NewVec3(
		offset.X*cos-offset.Z*sin,
		offset.Y,
		offset.X*sin+offset.Z*cos,
	)
	c.config.Position = c.config.LookAt.Add(rotated)
	c.rebuild()
}

// Tilt rotates the camera vertically around its look-at target by the
// given angle in degrees, clamped short of the poles.
func (c *Camera) Tilt(degrees float64) {
	offset := c.config.Position.Subtract(c.config.LookAt)
	radius := offset.Length()
	if radius == 0 {
		return
	}

	horizontal := math.Sqrt(offset.X*offset.X + offset.Z*offset.Z)
	elevation := math.Atan2(offset.Y, horizontal)
	azimuth := math.Atan2(offset.Z, offset.X)

	elevation += degrees * math.Pi / 180
	elevation = max(-1.5, min(1.5, elevation))

	c.config.Position = c.config.LookAt.Add(core.NewVec3(
		radius*math.Cos(elevation)*math.Cos(azimuth),
		radius*math.Sin(elevation),
		radius*math.Cos(elevation)*math.Sin(azimuth),
	))
	c.rebuild()
}

// Zoom moves the camera along its view direction, keeping at least one
// unit of distance to the target.
func (c *Camera) Zoom(delta float64) {
	offset := c.config.Position.Subtract(c.config.LookAt)
	distance := offset.Length()
	if distance == 0 {
		return
	}

	distance = max(1, min(50, distance-delta))
	c.config.Position = c.config.LookAt.Add(offset.Normalize().Multiply(distance))
	c.rebuild()
}

// MoveVertical moves both the camera and its target straight up or down
func (c *Camera) MoveVertical(delta float64) {
	shift := core.NewVec3(0, delta, 0)
	c.config.Position = c.config.Position.Add(shift)
	c.config.LookAt = c.config.LookAt.Add(shift)
	c.rebuild()
}
