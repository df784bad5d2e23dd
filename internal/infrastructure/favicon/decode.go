package favicon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // gif favicons
	_ "image/jpeg" // jpeg favicons
	"image/png"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp" // webp favicons
)

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	bmpHeaderSize = 14
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

var errMalformedICO = errors.New("malformed ico")

// decodeIcon decodes any image format a favicon commonly uses, including ICO.
func decodeIcon(data []byte) (image.Image, error) {
	if isICO(data) {
		return decodeICO(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode favicon: %w", err)
	}
	return img, nil
}

func isICO(data []byte) bool {
	return len(data) >= icoHeaderSize &&
		binary.LittleEndian.Uint16(data[0:]) == 0 &&
		binary.LittleEndian.Uint16(data[2:]) == 1
}

// decodeICO decodes the largest image of an ICO container. Entries are
// either embedded PNGs or headerless BMPs whose height covers the AND mask too.
func decodeICO(data []byte) (image.Image, error) {
	count := int(binary.LittleEndian.Uint16(data[4:]))
	if count == 0 || len(data) < icoHeaderSize+count*icoEntrySize {
		return nil, errMalformedICO
	}

	var best []byte
	bestArea := -1
	for i := range count {
		entry := data[icoHeaderSize+i*icoEntrySize:]
		w, h := int(entry[0]), int(entry[1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		size := int(binary.LittleEndian.Uint32(entry[8:]))
		offset := int(binary.LittleEndian.Uint32(entry[12:]))
		if size <= 0 || offset < icoHeaderSize || offset+size > len(data) {
			continue
		}
		if w*h > bestArea {
			best = data[offset : offset+size]
			bestArea = w * h
		}
	}
	if best == nil {
		return nil, errMalformedICO
	}

	if bytes.HasPrefix(best, pngSignature) {
		return png.Decode(bytes.NewReader(best))
	}
	return decodeDIB(best)
}

// decodeDIB wraps an ICO bitmap in a BMP file header, halving its height.
func decodeDIB(dib []byte) (image.Image, error) {
	if len(dib) < 40 {
		return nil, errMalformedICO
	}
	headerLen := binary.LittleEndian.Uint32(dib[0:])
	bitCount := binary.LittleEndian.Uint16(dib[14:])
	if bitCount != 24 && bitCount != 32 {
		return nil, fmt.Errorf("%w: %d bpp bitmap", errMalformedICO, bitCount)
	}

	fixed := make([]byte, len(dib))
	copy(fixed, dib)
	height := int32(binary.LittleEndian.Uint32(fixed[8:]))
	binary.LittleEndian.PutUint32(fixed[8:], uint32(height/2))

	var file bytes.Buffer
	file.Grow(bmpHeaderSize + len(fixed))
	file.WriteString("BM")
	_ = binary.Write(&file, binary.LittleEndian, uint32(bmpHeaderSize+len(fixed)))
	_ = binary.Write(&file, binary.LittleEndian, uint32(0))
	_ = binary.Write(&file, binary.LittleEndian, uint32(bmpHeaderSize)+headerLen)
	file.Write(fixed)

	return bmp.Decode(&file)
}
