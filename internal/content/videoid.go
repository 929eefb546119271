package content

import "regexp"

// YouTube IDs are exactly 11 characters; anything else is rejected.
const videoIDLength = 11

var (
	youtubeIDPattern = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w/|embed/|watch\?v=|&v=|shorts/)([^#&?/]+)`)
	bareIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID pulls the 11-character video ID out of the usual YouTube
// URL shapes (watch?v=, youtu.be/, shorts/, embed/). A bare 11-character
// ID is accepted as-is. Returns "" when no valid ID is present.
func ExtractVideoID(input string) string {
	if bareIDPattern.MatchString(input) {
		return input
	}
	match := youtubeIDPattern.FindStringSubmatch(input)
	if match == nil || len(match[1]) != videoIDLength {
		return ""
	}
	return match[1]
}
