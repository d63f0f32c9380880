package transcript

import "fmt"

// Default chunking policy. 30s windows keep each recognition request well
// under engine upload limits; the 0.3s overlap avoids cutting words at the
// boundary.
const (
	DefaultChunkLength = 30.0
	DefaultOverlap     = 0.3
)

// PlanChunks splits a media duration into windows of at most maxLen seconds,
// each overlapping its predecessor by overlap seconds. The windows cover
// [0, total] with no gaps; the final window ends exactly at total.
func PlanChunks(total, maxLen, overlap float64) ([]Chunk, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%.3fs: %w", total, ErrInvalidDuration)
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("chunk length must be positive, got %.3fs", maxLen)
	}
	if overlap <= 0 || overlap >= maxLen {
		return nil, fmt.Errorf("overlap %.3fs must be positive and smaller than chunk length %.3fs", overlap, maxLen)
	}

	if total <= maxLen {
		return []Chunk{{Index: 0, Start: 0, End: total}}, nil
	}

	step := maxLen - overlap
	var chunks []Chunk
	for i := 0; ; i++ {
		start := float64(i) * step
		end := start + maxLen
		if end >= total {
			chunks = append(chunks, Chunk{Index: i, Start: start, End: total})
			break
		}
		chunks = append(chunks, Chunk{Index: i, Start: start, End: end})
	}
	return chunks, nil
}
