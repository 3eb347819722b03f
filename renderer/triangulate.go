package renderer

// Triangulate splits a simple polygon into triangles by ear clipping and
// appends them to out as consecutive vertex triples, each wound with a
// positive cross product in the polygon's own coordinates regardless of the
// input winding. Degenerate vertices, including repeated points, are dropped
// without emitting.
func Triangulate(poly []Vec, out []Vec) []Vec {
	n := len(poly)
	if n < 3 {
		return out
	}

	idx := make([]int, n)
	if signedArea(poly) >= 0 {
		for i := range idx {
			idx[i] = i
		}
	} else {
		for i := range idx {
			idx[i] = n - 1 - i
		}
	}

	const eps = 1e-9
	guard := 0
	for len(idx) > 3 && guard < n*n {
		guard++
		clipped := false
		for i := range idx {
			prev := poly[idx[(i+len(idx)-1)%len(idx)]]
			cur := poly[idx[i]]
			next := poly[idx[(i+1)%len(idx)]]

			c := cross(prev, cur, next)
			if c < -eps {
				continue // reflex
			}
			if c <= eps {
				// Collinear or repeated point contributes no area
				idx = append(idx[:i], idx[i+1:]...)
				clipped = true
				break
			}
			if anyInside(poly, idx, i, prev, cur, next) {
				continue
			}
			out = append(out, prev, cur, next)
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break
		}
	}

	if len(idx) == 3 {
		a, b, c := poly[idx[0]], poly[idx[1]], poly[idx[2]]
		if cross(a, b, c) > eps {
			out = append(out, a, b, c)
		}
	}
	return out
}

// anyInside reports whether any remaining vertex other than the ear's own
// lies strictly inside triangle (a, b, c).
func anyInside(poly []Vec, idx []int, ear int, a, b, c Vec) bool {
	for k := range idx {
		if k == ear || k == (ear+1)%len(idx) || k == (ear+len(idx)-1)%len(idx) {
			continue
		}
		p := poly[idx[k]]
		if (p == a) || (p == b) || (p == c) {
			continue
		}
		if cross(a, b, p) > 0 && cross(b, c, p) > 0 && cross(c, a, p) > 0 {
			return true
		}
	}
	return false
}

func cross(a, b, c Vec) float64 {
	return float64(b.X-a.X)*float64(c.Y-a.Y) - float64(b.Y-a.Y)*float64(c.X-a.X)
}

func signedArea(poly []Vec) float64 {
	var area float64
	for i := range poly {
		j := (i + 1) % len(poly)
		area += float64(poly[i].X)*float64(poly[j].Y) - float64(poly[j].X)*float64(poly[i].Y)
	}
	return area / 2
}
