package tensor

import "fmt"

// Range selects [Start, End) along one dimension.
type Range struct {
	Start, End int
}

// FullRanges returns ranges covering every element of shape.
func FullRanges(shape Shape) []Range {
	ranges := make([]Range, len(shape))
	for i, d := range shape {
		ranges[i] = Range{Start: 0, End: d}
	}
	return ranges
}

// ResolveRanges validates ranges against shape and returns the offset and size
// of the selected box. Dimensions without a range are selected whole.
func ResolveRanges(shape Shape, ranges []Range) (offset []int, size Shape, err error) {
	if len(ranges) > len(shape) {
		return nil, nil, fmt.Errorf("%d ranges for %dD tensor", len(ranges), len(shape))
	}
	offset = make([]int, len(shape))
	size = shape.Clone()
	for d, r := range ranges {
		if r.Start < 0 || r.End > shape[d] || r.Start >= r.End {
			return nil, nil, fmt.Errorf("range [%d, %d) out of bounds for dimension %d of size %d",
				r.Start, r.End, d, shape[d])
		}
		offset[d] = r.Start
		size[d] = r.End - r.Start
	}
	return offset, size, nil
}
