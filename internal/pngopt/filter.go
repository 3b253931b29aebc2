package pngopt

import "fmt"

// strategy is a PNG filter type applied to every row, or adaptive which
// picks per row.
type strategy int

const (
	strategyNone strategy = iota
	strategySub
	strategyUp
	strategyAverage
	strategyPaeth
	adaptive
)

var allStrategies = []strategy{strategyNone, strategySub, strategyUp, strategyAverage, strategyPaeth, adaptive}

func (s strategy) String() string {
	switch s {
	case strategyNone:
		return "none"
	case strategySub:
		return "sub"
	case strategyUp:
		return "up"
	case strategyAverage:
		return "average"
	case strategyPaeth:
		return "paeth"
	case adaptive:
		return "adaptive"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// raster is an unfiltered 8-bit image.
type raster struct {
	width, height int
	colorType     uint8
	bpp           int
	pix           []byte // height rows of width*bpp bytes
}

func (r *raster) stride() int { return r.width * r.bpp }

func (r *raster) row(y int) []byte {
	s := r.stride()
	return r.pix[y*s : (y+1)*s]
}

// filter returns the filtered scanlines, each prefixed with its filter byte.
func (r *raster) filter(s strategy) []byte {
	stride := r.stride()
	out := make([]byte, 0, r.height*(stride+1))
	prev := make([]byte, stride)
	var scratch [5][]byte
	if s == adaptive {
		for i := range scratch {
			scratch[i] = make([]byte, stride)
		}
	}
	line := make([]byte, stride)

	for y := 0; y < r.height; y++ {
		cur := r.row(y)
		if s != adaptive {
			applyFilter(line, cur, prev, r.bpp, s)
			out = append(out, byte(s))
			out = append(out, line...)
		} else {
			best, bestSum := 0, -1
			for ft := strategyNone; ft <= strategyPaeth; ft++ {
				applyFilter(scratch[ft], cur, prev, r.bpp, ft)
				if sum := absSum(scratch[ft]); bestSum < 0 || sum < bestSum {
					best, bestSum = int(ft), sum
				}
			}
			out = append(out, byte(best))
			out = append(out, scratch[best]...)
		}
		prev = cur
	}
	return out
}

func applyFilter(dst, cur, prev []byte, bpp int, ft strategy) {
	switch ft {
	case strategyNone:
		copy(dst, cur)
	case strategySub:
		for i := range cur {
			var a byte
			if i >= bpp {
				a = cur[i-bpp]
			}
			dst[i] = cur[i] - a
		}
	case strategyUp:
		for i := range cur {
			dst[i] = cur[i] - prev[i]
		}
	case strategyAverage:
		for i := range cur {
			var a int
			if i >= bpp {
				a = int(cur[i-bpp])
			}
			dst[i] = cur[i] - byte((a+int(prev[i]))/2)
		}
	case strategyPaeth:
		for i := range cur {
			var a, c byte
			if i >= bpp {
				a, c = cur[i-bpp], prev[i-bpp]
			}
			dst[i] = cur[i] - paeth(a, prev[i], c)
		}
	}
}

// absSum is the minimum-sum-of-absolute-differences heuristic.
func absSum(b []byte) int {
	sum := 0
	for _, v := range b {
		if v < 128 {
			sum += int(v)
		} else {
			sum += 256 - int(v)
		}
	}
	return sum
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// unfilter reverses the per-row filters of raw into r.pix.
func unfilter(raw []byte, r *raster) error {
	stride := r.stride()
	prev := make([]byte, stride)
	for y := 0; y < r.height; y++ {
		line := raw[y*(stride+1) : (y+1)*(stride+1)]
		ft, src := line[0], line[1:]
		cur := r.row(y)
		switch strategy(ft) {
		case strategyNone:
			copy(cur, src)
		case strategySub:
			for i := range src {
				var a byte
				if i >= r.bpp {
					a = cur[i-r.bpp]
				}
				cur[i] = src[i] + a
			}
		case strategyUp:
			for i := range src {
				cur[i] = src[i] + prev[i]
			}
		case strategyAverage:
			for i := range src {
				var a int
				if i >= r.bpp {
					a = int(cur[i-r.bpp])
				}
				cur[i] = src[i] + byte((a+int(prev[i]))/2)
			}
		case strategyPaeth:
			for i := range src {
				var a, c byte
				if i >= r.bpp {
					a, c = cur[i-r.bpp], prev[i-r.bpp]
				}
				cur[i] = src[i] + paeth(a, prev[i], c)
			}
		default:
			return fmt.Errorf("pngopt: bad filter type %d on row %d", ft, y)
		}
		prev = cur
	}
	return nil
}
