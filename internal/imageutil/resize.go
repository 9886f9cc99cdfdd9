package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
)

var ErrInvalidSize = errors.New("invalid target size")

// Decode reads a PNG, JPEG or GIF image and reports its format name.
func Decode(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

// FitWithin returns the largest size with the source aspect ratio that
// fits inside maxW x maxH. Images are never enlarged.
func FitWithin(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= maxW && srcH <= maxH {
		return srcW, srcH
	}
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Resize scales src to exactly dstW x dstH with bilinear sampling.
func Resize(src image.Image, dstW, dstH int) (*image.NRGBA, error) {
	if dstW <= 0 || dstH <= 0 {
		return nil, ErrInvalidSize
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, errors.New("source image has zero size")
	}
	in := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(in, in.Bounds(), src, b.Min, draw.Src)
	if b.Dx() == dstW && b.Dy() == dstH {
		return in, nil
	}

	out := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	xRatio := float64(b.Dx()) / float64(dstW)
	yRatio := float64(b.Dy()) / float64(dstH)
	maxX, maxY := b.Dx()-1, b.Dy()-1

	for y := 0; y < dstH; y++ {
		sy := math.Max(0, (float64(y)+0.5)*yRatio-0.5)
		y0 := int(sy)
		y1 := min(y0+1, maxY)
		fy := sy - float64(y0)
		for x := 0; x < dstW; x++ {
			sx := math.Max(0, (float64(x)+0.5)*xRatio-0.5)
			x0 := int(sx)
			x1 := min(x0+1, maxX)
			fx := sx - float64(x0)

			p00 := in.PixOffset(min(x0, maxX), min(y0, maxY))
			p10 := in.PixOffset(x1, min(y0, maxY))
			p01 := in.PixOffset(min(x0, maxX), y1)
			p11 := in.PixOffset(x1, y1)
			o := out.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				top := float64(in.Pix[p00+c])*(1-fx) + float64(in.Pix[p10+c])*fx
				bottom := float64(in.Pix[p01+c])*(1-fx) + float64(in.Pix[p11+c])*fx
				v := top*(1-fy) + bottom*fy
				out.Pix[o+c] = uint8(math.Max(0, math.Min(255, math.Round(v))))
			}
		}
	}
	return out, nil
}

// FitPNG decodes data, shrinks it to fit maxW x maxH and encodes the result
// as PNG. It also returns the output dimensions.
func FitPNG(data []byte, maxW, maxH int) ([]byte, int, int, error) {
	if maxW <= 0 || maxH <= 0 {
		return nil, 0, 0, ErrInvalidSize
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, 0, 0, err
	}
	w, h := FitWithin(img.Bounds().Dx(), img.Bounds().Dy(), maxW, maxH)
	out, err := Resize(img, w, h)
	if err != nil {
		return nil, 0, 0, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, 0, 0, err
	}
	return buf.Bytes(), w, h, nil
}
