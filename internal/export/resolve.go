package export

import (
	"context"
	"math"
	"sort"

	"github.com/cutroom/cutroom-agent/internal/catalog"
	"github.com/cutroom/cutroom-agent/internal/timeline"
)

// ResolveTimeline flattens a timeline into record order and resolves each
// clip's asset to a media path. Clips are ordered by timeline position, ties
// by insertion order. Clips whose asset cannot be found are skipped and
// reported in the second return value.
func ResolveTimeline(ctx context.Context, t *timeline.Timeline, assets catalog.Service) ([]ResolvedClip, []string, error) {
	ordered := make([]timeline.Clip, len(t.Clips))
	copy(ordered, t.Clips)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	resolved := make([]ResolvedClip, 0, len(ordered))
	unresolved := make([]string, 0)

	for _, c := range ordered {
		asset, err := assets.GetAsset(ctx, c.AssetID)
		if err != nil {
			return nil, nil, err
		}
		if asset == nil {
			unresolved = append(unresolved, c.ID)
			continue
		}

		name := SanitizeName(asset.Filename, 160)
		if name == "" {
			name = c.AssetID
		}

		resolved = append(resolved, ResolvedClip{
			ClipName:  name,
			MediaPath: asset.Path,
			StartMs:   secondsToMs(c.Start),
			EndMs:     secondsToMs(c.End),
			Track:     c.Track,
		})
	}

	return resolved, unresolved, nil
}

func secondsToMs(s float64) int {
	return int(math.Round(s * 1000))
}
