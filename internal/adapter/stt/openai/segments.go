package openai

import (
	"strings"

	"github.com/bnema/scribe/internal/domain"
	"github.com/samber/lo"
)

func toSegments(in []verboseSegment) []domain.Segment {
	return lo.Map(in, func(s verboseSegment, _ int) domain.Segment {
		return domain.Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)}
	})
}
