package imageprocessing

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// EncodeGrayPNG writes a gray-paletted image as a PNG of colour type 0
// (grayscale) at the requested bit depth. The palette index of each pixel is
// written as its gray level, so the palette must come from GrayPalette.
// e-ink clients expect this over an indexed PNG.
func EncodeGrayPNG(p *image.Paletted, bitDepth int) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("encode gray png: nil image")
	}
	if !ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("encode gray png: unsupported bit depth %d", bitDepth)
	}
	if len(p.Palette) > ColorLevels(bitDepth) {
		return nil, fmt.Errorf("encode gray png: %d colours do not fit %d-bit", len(p.Palette), bitDepth)
	}

	bounds := p.Bounds()
	var ihdr bytes.Buffer
	binary.Write(&ihdr, binary.BigEndian, uint32(bounds.Dx()))
	binary.Write(&ihdr, binary.BigEndian, uint32(bounds.Dy()))
	// bit depth, colour type gray, deflate, adaptive filtering, no interlace
	ihdr.Write([]byte{byte(bitDepth), 0, 0, 0, 0})

	idat, err := deflate(packRows(p, bitDepth))
	if err != nil {
		return nil, fmt.Errorf("encode gray png: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(pngSignature)
	writeChunk(&buf, "IHDR", ihdr.Bytes())
	writeChunk(&buf, "IDAT", idat)
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes(), nil
}

// packRows packs palette indices MSB first, each row prefixed with filter
// type 0.
func packRows(p *image.Paletted, bitDepth int) []byte {
	bounds := p.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	perByte := 8 / bitDepth
	stride := (width+perByte-1)/perByte + 1

	data := make([]byte, height*stride)
	for y := 0; y < height; y++ {
		row := data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			idx := p.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y)
			shift := (perByte - 1 - x%perByte) * bitDepth
			row[1+x/perByte] |= idx << shift
		}
	}
	return data
}

func writeChunk(buf *bytes.Buffer, kind string, data []byte) {
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	crc := crc32.NewIEEE()
	crc.Write([]byte(kind))
	crc.Write(data)
	buf.WriteString(kind)
	buf.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("create zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("compress image data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flush image data: %w", err)
	}
	return buf.Bytes(), nil
}
