// ambisonic.go - ACN/SN3D spherical-harmonic channel ordering, and the
// listener-orientation rotation matrix used to rotate a device's
// ambisonic Dry buffer before speaker/HRTF decode.
//
// Degree-1's rotation block comes directly from the listener's
// right/up/forward basis change. Degree two and up are built by
// projection: a real spherical-harmonic rotation matrix D^l is the
// unique linear map satisfying Y_l(R·d) = D^l · Y_l(d) for every
// direction d, so sampling enough independent directions and solving
// the resulting linear system recovers D^l exactly, without having to
// hand-carry the full Ivanic & Ruedenberg u/v/w recursion.

/*
License: GPLv3 or later
*/

package alcore

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// AcnChannels returns the number of ACN channels for a given order:
// (order+1)^2.
func AcnChannels(order int) int {
	return (order + 1) * (order + 1)
}

// AmbiRotator holds the per-order rotation sub-matrices used to rotate
// an ambisonic signal from source orientation into listener space.
type AmbiRotator struct {
	order int
	mats  []*mat.Dense // mats[l] is the (2l+1)x(2l+1) rotation block for degree l
}

// NewAmbiRotator builds an identity rotator for the given order.
func NewAmbiRotator(order int) *AmbiRotator {
	r := &AmbiRotator{order: order, mats: make([]*mat.Dense, order+1)}
	for l := 0; l <= order; l++ {
		n := 2*l + 1
		m := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			m.Set(i, i, 1)
		}
		r.mats[l] = m
	}
	return r
}

// SetFromForwardUp derives the rotator's matrices from a listener's
// forward/up orientation vectors.
func (r *AmbiRotator) SetFromForwardUp(forward, up [3]float32) {
	right := cross3(forward, up)
	right = normalize3(right)
	up = normalize3(cross3(right, forward))
	fwd := normalize3(forward)

	// Degree-1 (order-1) rotation block directly from the basis change;
	// ACN order within degree 1 is {Y, Z, X} = {1, 2, 3}.
	l1 := r.mats[1]
	l1.Set(0, 0, float64(right[1]))
	l1.Set(0, 1, float64(up[1]))
	l1.Set(0, 2, float64(fwd[1]))
	l1.Set(1, 0, float64(right[2]))
	l1.Set(1, 1, float64(up[2]))
	l1.Set(1, 2, float64(fwd[2]))
	l1.Set(2, 0, float64(right[0]))
	l1.Set(2, 1, float64(up[0]))
	l1.Set(2, 2, float64(fwd[0]))

	for l := 2; l <= r.order; l++ {
		r.mats[l] = buildRotationBlock(l1, l)
	}
}

// buildRotationBlock constructs degree l's rotation block by sampling
// Y_l at n = 2l+1 well-spread directions, rotating each direction
// through the already-known degree-1 block, and solving for the
// matrix D satisfying B = D·A where A's columns are Y_l at the
// sample directions and B's columns are Y_l at the rotated
// directions.
func buildRotationBlock(l1 *mat.Dense, l int) *mat.Dense {
	n := 2*l + 1
	dirs := fibonacciSphereDirections(n)
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, n, nil)
	for col, d := range dirs {
		for row := 0; row < n; row++ {
			m := row - l
			a.Set(row, col, realSH(l, m, d[0], d[1]))
		}
		raz, rel := rotateDirectionByL1(l1, d[0], d[1])
		for row := 0; row < n; row++ {
			m := row - l
			b.Set(row, col, realSH(l, m, raz, rel))
		}
	}
	var ainv mat.Dense
	if err := ainv.Inverse(a); err != nil {
		out := mat.NewDense(n, n, nil)
		for i := 0; i < n; i++ {
			out.Set(i, i, 1)
		}
		return out
	}
	out := mat.NewDense(n, n, nil)
	out.Mul(b, &ainv)
	return out
}

// rotateDirectionByL1 rotates a direction through the degree-1 block,
// which is exactly the listener's 3x3 spatial rotation expressed in
// ACN {Y, Z, X} order, and converts the result back to azimuth and
// elevation.
func rotateDirectionByL1(l1 *mat.Dense, azimuth, elevation float64) (float64, float64) {
	c := ambiDirectionCoeffs(azimuth, elevation)
	v := mat.NewVecDense(3, []float64{float64(c[1]), float64(c[2]), float64(c[3])})
	var rv mat.VecDense
	rv.MulVec(l1, v)
	y, z, x := rv.AtVec(0), rv.AtVec(1), rv.AtVec(2)
	el := math.Asin(clampF64(z, -1, 1))
	az := math.Atan2(y, x)
	return az, el
}

// fibonacciSphereDirections returns n directions spread evenly over
// the sphere via a Fibonacci lattice, used as the sample set for
// buildRotationBlock; any well-conditioned spread works since the
// projection it feeds is exact for any full-rank sample.
func fibonacciSphereDirections(n int) [][2]float64 {
	dirs := make([][2]float64, n)
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		z := 1 - (2*float64(i)+1)/float64(n)
		r := math.Sqrt(math.Max(0, 1-z*z))
		theta := goldenAngle * float64(i)
		x := math.Cos(theta) * r
		y := math.Sin(theta) * r
		dirs[i] = [2]float64{math.Atan2(y, x), math.Asin(clampF64(z, -1, 1))}
	}
	return dirs
}

// legendreP evaluates the unnormalized associated Legendre function
// P_l^m(x) for 0 <= m <= l via the standard stable upward recursion,
// without the Condon-Shortley phase (matching the real-SH convention
// ambiDirectionCoeffs already uses for degrees 0 and 1).
func legendreP(l, m int, x float64) float64 {
	pmm := 1.0
	if m > 0 {
		somx2 := math.Sqrt(math.Max(0, 1-x*x))
		fact := 1.0
		for i := 1; i <= m; i++ {
			pmm *= fact * somx2
			fact += 2
		}
	}
	if l == m {
		return pmm
	}
	pmmp1 := x * float64(2*m+1) * pmm
	if l == m+1 {
		return pmmp1
	}
	var pll float64
	for ll := m + 2; ll <= l; ll++ {
		pll = (x*float64(2*ll-1)*pmmp1 - float64(ll+m-1)*pmm) / float64(ll-m)
		pmm, pmmp1 = pmmp1, pll
	}
	return pll
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// realSH evaluates the SN3D-normalized real spherical harmonic of
// degree l, order m (m in [-l, l]) at a direction, matching
// ambiDirectionCoeffs' X/Y/Z convention at degree 1 (degree 0 here is
// 1, while ambiDirectionCoeffs scales W to 1/sqrt(2)).
func realSH(l, m int, azimuth, elevation float64) float64 {
	am := m
	if am < 0 {
		am = -am
	}
	p := legendreP(l, am, math.Sin(elevation))
	var norm float64
	if m == 0 {
		norm = math.Sqrt(factorial(l-am) / factorial(l+am))
	} else {
		norm = math.Sqrt(2 * factorial(l-am) / factorial(l+am))
	}
	var trig float64
	if m >= 0 {
		trig = math.Cos(float64(am) * azimuth)
	} else {
		trig = math.Sin(float64(am) * azimuth)
	}
	return norm * p * trig
}

// Rotate applies the rotator to one mix block's ambisonic channels in
// place (channel-major: chans[acnIndex][sample]).
func (r *AmbiRotator) Rotate(chans [][]float32) {
	n := len(chans[0])
	for l := 1; l <= r.order; l++ {
		base := l * l
		width := 2*l + 1
		if base+width > len(chans) {
			width = len(chans) - base
		}
		m := r.mats[l]
		scratch := make([][]float32, width)
		for i := range scratch {
			scratch[i] = make([]float32, n)
		}
		for i := 0; i < width; i++ {
			for j := 0; j < width; j++ {
				w := float32(m.At(i, j))
				if w == 0 {
					continue
				}
				src := chans[base+j]
				dst := scratch[i]
				for s := 0; s < n; s++ {
					dst[s] += w * src[s]
				}
			}
		}
		for i := 0; i < width; i++ {
			copy(chans[base+i], scratch[i])
		}
	}
}

func cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize3(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l < 1e-8 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// AmbiUpsampleMatrix maps an order-srcOrder buffer's contribution into
// an order-dstOrder layout by zero-padding the higher-degree channels.
func AmbiUpsampleMatrix(srcOrder, dstOrder int) [][]float32 {
	srcN, dstN := AcnChannels(srcOrder), AcnChannels(dstOrder)
	m := make([][]float32, dstN)
	for i := range m {
		m[i] = make([]float32, srcN)
		if i < srcN {
			m[i][i] = 1
		}
	}
	return m
}
