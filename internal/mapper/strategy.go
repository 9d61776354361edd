package mapper

import (
	"image/color"
	"math"
	"sort"
)

// Mapper converts a source color into a palette color. Only RGB is
// considered; callers keep the source alpha.
type Mapper interface {
	Map(c color.NRGBA) color.NRGBA
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(c color.NRGBA) color.NRGBA

// Map calls f(c).
func (f MapperFunc) Map(c color.NRGBA) color.NRGBA { return f(c) }

// Nearest picks the closest palette color.
type Nearest struct {
	Palette Palette
}

// Map implements Mapper.
func (n Nearest) Map(c color.NRGBA) color.NRGBA {
	p := paletteOrNord(n.Palette)
	best, bestDist := p[0], math.MaxInt
	for _, candidate := range p {
		if d := distance(c, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return opaque(best)
}

// Creative matches on chroma alone, then shifts the match by the brightness
// difference so shading in the source survives.
type Creative struct {
	Palette Palette
}

// Map implements Mapper.
func (m Creative) Map(c color.NRGBA) color.NRGBA {
	p := paletteOrNord(m.Palette)
	y := luma(c)
	cr, cg, cb := float64(c.R)-y, float64(c.G)-y, float64(c.B)-y

	best, bestDist, bestLuma := p[0], math.Inf(1), luma(p[0])
	for _, candidate := range p {
		py := luma(candidate)
		dr := cr - (float64(candidate.R) - py)
		dg := cg - (float64(candidate.G) - py)
		db := cb - (float64(candidate.B) - py)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist, bestLuma = candidate, d, py
		}
	}

	shift := y - bestLuma
	return color.NRGBA{
		R: clamp8(float64(best.R) + shift),
		G: clamp8(float64(best.G) + shift),
		B: clamp8(float64(best.B) + shift),
		A: 0xff,
	}
}

// Knn blends the K nearest palette colors, weighting each by the inverse of
// its distance. K is clamped to the palette size; K of 1 behaves like Nearest.
type Knn struct {
	K       int
	Palette Palette
}

// NewKnn returns a Knn over the Nord palette.
func NewKnn(k int) Knn {
	return Knn{K: k, Palette: Nord}
}

// Map implements Mapper.
func (m Knn) Map(c color.NRGBA) color.NRGBA {
	p := paletteOrNord(m.Palette)
	k := m.K
	if k < 1 {
		k = 1
	}
	if k > len(p) {
		k = len(p)
	}

	type neighbor struct {
		c color.NRGBA
		d int
	}
	neighbors := make([]neighbor, len(p))
	for i, candidate := range p {
		neighbors[i] = neighbor{candidate, distance(c, candidate)}
	}
	sort.SliceStable(neighbors, func(i, j int) bool { return neighbors[i].d < neighbors[j].d })

	if neighbors[0].d == 0 || k == 1 {
		return opaque(neighbors[0].c)
	}

	var r, g, b, total float64
	for _, n := range neighbors[:k] {
		w := 1 / math.Sqrt(float64(n.d))
		r += w * float64(n.c.R)
		g += w * float64(n.c.G)
		b += w * float64(n.c.B)
		total += w
	}
	return color.NRGBA{R: clamp8(r / total), G: clamp8(g / total), B: clamp8(b / total), A: 0xff}
}

// Memo caches the results of another Mapper by source RGB. It is meant to
// live for a single render and is not safe for concurrent use.
type Memo struct {
	next  Mapper
	cache map[uint32]color.NRGBA
}

// Memoize wraps m with a cache.
func Memoize(m Mapper) *Memo {
	return &Memo{next: m, cache: make(map[uint32]color.NRGBA)}
}

// Map implements Mapper.
func (m *Memo) Map(c color.NRGBA) color.NRGBA {
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if out, ok := m.cache[key]; ok {
		return out
	}
	out := m.next.Map(c)
	m.cache[key] = out
	return out
}

// Len returns the number of cached colors.
func (m *Memo) Len() int {
	return len(m.cache)
}

func paletteOrNord(p Palette) Palette {
	if len(p) == 0 {
		return Nord
	}
	return p
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}
