package pagetrans

import (
	"unicode/utf8"

	"pdf-translator/internal/docmodel"
)

const (
	// minRegionHeight is the floor below which a region is recentered and
	// expanded so the fitter has usable vertical space.
	minRegionHeight = 10.0

	// growthFactorMin and growthFactorMax bound the horizontal expansion
	// applied for translated text longer than the original.
	growthFactorMin = 1.01
	growthFactorMax = 1.10

	// scannedVerticalPad is the outward padding added above and below a
	// scanned fragment's box so the cover rectangle hides raster edges.
	scannedVerticalPad = 2.0
)

// ComputeRenderRegion derives the region where a fragment's translation is
// placed. The original bbox grows horizontally in proportion to the length
// ratio of translated vs original text, within bounded factors. Digital
// regions pull in vertically to avoid redacting neighbors; scanned regions
// pad outward so the white cover fully hides the rasterized original. The
// result is clamped to page bounds and holds a minimum height.
func ComputeRenderRegion(f *TextFragment, pageBounds docmodel.Rect) docmodel.Rect {
	region := f.BBox

	ratio := lengthRatio(f.Output(), f.Text)
	if ratio < growthFactorMin {
		ratio = growthFactorMin
	}
	if ratio > growthFactorMax {
		ratio = growthFactorMax
	}
	region.X1 += (ratio - 1) * f.BBox.Width()

	if f.Source == SourceScanned {
		region.Y0 -= scannedVerticalPad
		region.Y1 += scannedVerticalPad
	} else {
		margin := f.BBox.Height() * 0.1
		if margin > 3 {
			margin = 3
		}
		region.Y0 += margin
		region.Y1 -= margin
	}

	if region.Height() < minRegionHeight {
		center := (region.Y0 + region.Y1) / 2
		region.Y0 = center - minRegionHeight/2
		region.Y1 = center + minRegionHeight/2
	}

	return region.Clip(pageBounds)
}

func lengthRatio(translated, original string) float64 {
	origLen := utf8.RuneCountInString(original)
	if origLen == 0 {
		return growthFactorMin
	}
	return float64(utf8.RuneCountInString(translated)) / float64(origLen)
}
