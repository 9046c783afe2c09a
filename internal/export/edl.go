package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders the resolved clips as a CMX3600-style edit decision
// list. Record offsets accumulate in clip order; the channel column of each
// event reflects the clip's timeline track.
func GenerateEDL(clips []ResolvedClip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	fcm := "NON-DROP FRAME"
	if math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01 {
		fcm = "DROP FRAME"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	fmt.Fprintf(&b, "FCM: %s\n\n", fcm)

	recordOffsetMs := 0
	for i, clip := range clips {
		durationMs := clip.EndMs - clip.StartMs
		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n",
			i+1, "AX", channelForTrack(clip.Track),
			msToTimecode(clip.StartMs, fps), msToTimecode(clip.EndMs, fps),
			msToTimecode(recordOffsetMs, fps), msToTimecode(recordOffsetMs+durationMs, fps))
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", clip.ClipName)
		fmt.Fprintf(&b, "* MEDIA PATH:  %s\n", clip.MediaPath)

		recordOffsetMs += durationMs
	}

	return b.String()
}

// channelForTrack maps a timeline track index onto the EDL channel column.
// Track 0 is the base video channel "V"; higher tracks number from V2 so the
// layering survives a round trip through an NLE.
func channelForTrack(track int) string {
	if track <= 0 {
		return "V"
	}
	return fmt.Sprintf("V%d", track+1)
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
