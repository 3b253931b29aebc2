package pngopt

// reduce returns r rewritten to the smallest colour type that decodes to the
// same pixels, or nil if no reduction applies:
//
//	RGBA -> RGB        all alpha 255
//	RGBA -> Gray+Alpha all pixels gray
//	RGB  -> Gray       all pixels gray
//	Gray+Alpha -> Gray all alpha 255
func reduce(r *raster) *raster {
	gray, opaque := true, true
	switch r.colorType {
	case 6:
		for i := 0; i < len(r.pix); i += 4 {
			p := r.pix[i : i+4]
			if p[0] != p[1] || p[1] != p[2] {
				gray = false
			}
			if p[3] != 0xff {
				opaque = false
			}
			if !gray && !opaque {
				return nil
			}
		}
	case 2:
		for i := 0; i < len(r.pix); i += 3 {
			if r.pix[i] != r.pix[i+1] || r.pix[i+1] != r.pix[i+2] {
				return nil
			}
		}
	case 4:
		for i := 1; i < len(r.pix); i += 2 {
			if r.pix[i] != 0xff {
				return nil
			}
		}
	default:
		return nil
	}

	var target uint8
	switch {
	case r.colorType == 6 && gray && opaque, r.colorType == 2, r.colorType == 4:
		target = 0
	case r.colorType == 6 && gray:
		target = 4
	case r.colorType == 6 && opaque:
		target = 2
	}
	return convert(r, target)
}

// convert copies r into colour type target, keeping the channels the target
// stores. Callers guarantee the dropped channels are redundant.
func convert(r *raster, target uint8) *raster {
	out := &raster{
		width:     r.width,
		height:    r.height,
		colorType: target,
		bpp:       channels(target),
	}
	n := r.width * r.height
	out.pix = make([]byte, n*out.bpp)

	// Index of the alpha channel in the source pixel, -1 if none.
	alpha := -1
	if r.colorType == 4 || r.colorType == 6 {
		alpha = r.bpp - 1
	}
	for i := 0; i < n; i++ {
		src := r.pix[i*r.bpp : (i+1)*r.bpp]
		dst := out.pix[i*out.bpp : (i+1)*out.bpp]
		switch target {
		case 0:
			dst[0] = src[0]
		case 4:
			dst[0], dst[1] = src[0], src[alpha]
		case 2:
			copy(dst, src[:3])
		}
	}
	return out
}
