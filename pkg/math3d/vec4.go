package math3d

// Vec4 represents a homogeneous 3D point.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 creates a Vec4 from Vec3 with specified W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns the point divided by W.
// ok is false when W is zero; the returned vector is then the zero vector.
func (v Vec4) PerspectiveDivide() (p Vec3, ok bool) {
	if v.W == 0 {
		return Vec3{}, false
	}
	invW := 1.0 / v.W
	return Vec3{v.X * invW, v.Y * invW, v.Z * invW}, true
}
