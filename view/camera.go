package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit is a camera circling Target. Pitch and Yaw are in degrees.
type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32
	Yaw      float32
}

func NewOrbit(target mgl32.Vec3, distance, pitch, yaw float32) *Orbit {
	return &Orbit{Target: target, Distance: distance, Pitch: pitch, Yaw: yaw}
}

// direction is the unit vector from the target to the eye
func (o *Orbit) direction() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(o.Pitch))
	yaw := float64(mgl32.DegToRad(o.Yaw))
	return mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}
}

func (o *Orbit) Position() mgl32.Vec3 {
	return o.Target.Add(o.direction().Mul(o.Distance))
}

func (o *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.Target, mgl32.Vec3{0, 1, 0})
}

// Fit keeps the angles and moves the camera so a sphere of radius around
// center fills a vertical field of view of fovY degrees.
func (o *Orbit) Fit(center mgl32.Vec3, radius, fovY float32) {
	if radius <= 0 {
		radius = 1
	}
	o.Target = center
	o.Distance = radius / float32(math.Sin(float64(mgl32.DegToRad(fovY))/2))
}
