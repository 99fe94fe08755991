package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/iburimskiy/gesture-tree/internal/config"
)

// Camera is a fixed perspective viewpoint.
type Camera struct {
	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3
	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
}

// DefaultCamera sits in front of the tree, slightly raised, looking down -Z.
func DefaultCamera() Camera {
	eye := mgl32.Vec3{0, config.CameraY, config.CameraZ}
	return Camera{
		Eye:    eye,
		Center: eye.Sub(mgl32.Vec3{0, 0, 1}),
		Up:     mgl32.Vec3{0, 1, 0},
		FOV:    config.CameraFOV,
		Near:   config.CameraNear,
		Far:    config.CameraFar,
	}
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Center, c.Up)
}

func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Projector maps world points to screen pixels for one viewport.
type Projector struct {
	view   mgl32.Mat4
	proj   mgl32.Mat4
	width  float32
	height float32
}

func (c Camera) Projector(width, height int) Projector {
	w, h := float32(width), float32(height)
	if h <= 0 {
		h = 1
	}
	return Projector{view: c.View(), proj: c.Projection(w / h), width: w, height: h}
}

// Project returns the screen position of p and its distance in front of
// the camera. ok is false for points behind the camera or outside the
// depth range.
func (pr Projector) Project(p mgl32.Vec3) (x, y, depth float32, ok bool) {
	v := pr.view.Mul4x1(p.Vec4(1))
	depth = -v.Z()
	if depth <= 0 {
		return 0, 0, depth, false
	}
	clip := pr.proj.Mul4x1(v)
	if clip.W() == 0 {
		return 0, 0, depth, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, depth, false
	}
	x = (ndc.X() + 1) * 0.5 * pr.width
	y = (1 - ndc.Y()) * 0.5 * pr.height
	return x, y, depth, true
}

// PixelScale is the on-screen size in pixels of a world-space length at
// the given depth.
func (pr Projector) PixelScale(depth float32) float32 {
	if depth <= 0 {
		return 0
	}
	// proj[1][1] is cot(fov/2); NDC spans 2 units over the viewport height.
	return pr.proj.At(1, 1) * pr.height * 0.5 / depth
}
