package pngopt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

var signature = []byte("\x89PNG\r\n\x1a\n")

// maxIDAT splits the rewritten image data across several IDAT chunks.
const maxIDAT = 1 << 18

// maxPixels bounds the scanline buffers the optimizer will allocate.
const maxPixels = 1 << 28

type chunk struct {
	typ  string
	data []byte
}

type header struct {
	width, height int
	depth         uint8
	colorType     uint8
	interlace     uint8
}

type file struct {
	hdr    header
	before []chunk // ancillary chunks between IHDR and the first IDAT
	after  []chunk // ancillary chunks after the last IDAT
	idat   []byte
}

func (f *file) has(typ string) bool {
	for _, c := range f.before {
		if c.typ == typ {
			return true
		}
	}
	for _, c := range f.after {
		if c.typ == typ {
			return true
		}
	}
	return false
}

func parse(data []byte) (*file, error) {
	if !bytes.HasPrefix(data, signature) {
		return nil, fmt.Errorf("pngopt: bad signature")
	}
	f := &file{}
	rest := data[len(signature):]
	seenIHDR, seenIDAT, seenIEND := false, false, false

	for len(rest) > 0 {
		if len(rest) < 12 {
			return nil, fmt.Errorf("pngopt: truncated chunk")
		}
		n := binary.BigEndian.Uint32(rest[:4])
		if uint64(n)+12 > uint64(len(rest)) {
			return nil, fmt.Errorf("pngopt: truncated chunk")
		}
		typ := string(rest[4:8])
		body := rest[8 : 8+n]
		sum := binary.BigEndian.Uint32(rest[8+n : 12+n])
		if crc32.ChecksumIEEE(rest[4:8+n]) != sum {
			return nil, fmt.Errorf("pngopt: %s checksum mismatch", typ)
		}
		rest = rest[12+n:]

		switch typ {
		case "IHDR":
			if seenIHDR || len(body) != 13 {
				return nil, fmt.Errorf("pngopt: bad IHDR")
			}
			seenIHDR = true
			f.hdr = header{
				width:     int(binary.BigEndian.Uint32(body[0:4])),
				height:    int(binary.BigEndian.Uint32(body[4:8])),
				depth:     body[8],
				colorType: body[9],
				interlace: body[12],
			}
		case "IDAT":
			if !seenIHDR {
				return nil, fmt.Errorf("pngopt: IDAT before IHDR")
			}
			seenIDAT = true
			f.idat = append(f.idat, body...)
		case "IEND":
			seenIEND = true
		default:
			if !seenIHDR {
				return nil, fmt.Errorf("pngopt: %s before IHDR", typ)
			}
			c := chunk{typ: typ, data: body}
			if seenIDAT {
				f.after = append(f.after, c)
			} else {
				f.before = append(f.before, c)
			}
		}
		if seenIEND {
			break
		}
	}
	if !seenIHDR || !seenIDAT || !seenIEND {
		return nil, fmt.Errorf("pngopt: missing critical chunk")
	}

	h := f.hdr
	if h.width <= 0 || h.height <= 0 {
		return nil, fmt.Errorf("pngopt: bad dimensions %dx%d", h.width, h.height)
	}
	if uint64(h.width)*uint64(h.height) > maxPixels {
		return nil, ErrUnsupported
	}
	if h.depth != 8 || h.interlace != 0 {
		return nil, ErrUnsupported
	}
	if channels(h.colorType) == 0 {
		return nil, ErrUnsupported
	}
	return f, nil
}

// inflate returns the unfiltered scanlines of the file.
func (f *file) inflate() (*raster, error) {
	bpp := channels(f.hdr.colorType)
	stride := f.hdr.width * bpp
	raw, err := decompress(f.idat, f.hdr.height*(stride+1))
	if err != nil {
		return nil, err
	}
	r := &raster{
		width:     f.hdr.width,
		height:    f.hdr.height,
		colorType: f.hdr.colorType,
		bpp:       bpp,
		pix:       make([]byte, f.hdr.height*stride),
	}
	if err := unfilter(raw, r); err != nil {
		return nil, err
	}
	return r, nil
}

// colorBound lists ancillary chunks whose meaning depends on the colour type.
var colorBound = map[string]bool{"bKGD": true, "sBIT": true, "tRNS": true, "PLTE": true}

func (f *file) assemble(r *raster, idat []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(idat) + 1024)
	buf.Write(signature)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(r.width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(r.height))
	ihdr[8] = 8
	ihdr[9] = r.colorType
	writeChunk(&buf, "IHDR", ihdr)

	changed := r.colorType != f.hdr.colorType
	keep := func(c chunk) bool {
		if !changed {
			return true
		}
		return !colorBound[c.typ]
	}

	for _, c := range f.before {
		if keep(c) {
			writeChunk(&buf, c.typ, c.data)
		}
	}
	for len(idat) > 0 {
		n := min(len(idat), maxIDAT)
		writeChunk(&buf, "IDAT", idat[:n])
		idat = idat[n:]
	}
	for _, c := range f.after {
		if keep(c) {
			writeChunk(&buf, c.typ, c.data)
		}
	}
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes()
}

func writeChunk(buf *bytes.Buffer, typ string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], typ)
	buf.Write(hdr[:])
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	buf.Write(sum[:])
}

// channels returns bytes per pixel for an 8-bit colour type, or 0 if the
// colour type is not handled.
func channels(colorType uint8) int {
	switch colorType {
	case 0:
		return 1
	case 2:
		return 3
	case 4:
		return 2
	case 6:
		return 4
	}
	return 0
}
