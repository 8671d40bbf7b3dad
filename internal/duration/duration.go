// Package duration rolls subtopic playback times up into topic and course durations.
//
// Playback times are "H:MM:SS" or "HH:MM:SS" clock-style strings with the hour in
// 0-23. Aggregated durations are encoded as zero-padded "HH:MM:SS" whose hour part
// grows without wrapping, so "25:00:00" is a valid course duration.
package duration

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/skillbridge/backend/internal/models"
	"github.com/skillbridge/backend/libs/apperrors"
)

var playbackTimePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9]):([0-5][0-9])$`)

// Zero is the encoded duration of an empty topic or course
const Zero = "00:00:00"

// ParsePlaybackTime converts a playback time string to seconds.
// It returns an apperrors.ErrValidation error when s does not match the pattern.
func ParsePlaybackTime(s string) (int, error) {
	m := playbackTimePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, apperrors.Validation(fmt.Sprintf("invalid playback time %q: expected HH:MM:SS", s))
	}

	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])

	return h*3600 + mins*60 + sec, nil
}

// Format encodes seconds as zero-padded HH:MM:SS. Hours are not wrapped at 24.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// Sum parses and adds the given playback times
func Sum(playbackTimes []string) (int, error) {
	total := 0
	for _, pt := range playbackTimes {
		seconds, err := ParsePlaybackTime(pt)
		if err != nil {
			return 0, err
		}
		total += seconds
	}
	return total, nil
}

// TopicSeconds returns the summed playback time of a topic's subtopics
func TopicSeconds(topic *models.Topic) (int, error) {
	total := 0
	for i := range topic.SubTopics {
		seconds, err := ParsePlaybackTime(topic.SubTopics[i].VideoPlaybackTime)
		if err != nil {
			return 0, fmt.Errorf("subtopic %q: %w", topic.SubTopics[i].Title, err)
		}
		total += seconds
	}
	return total, nil
}

// Apply recomputes TopicDuration of every topic and returns the course total.
// Topics are updated in place; nothing is written when any playback time is invalid.
func Apply(topics []models.Topic) (string, error) {
	durations := make([]int, len(topics))
	total := 0
	for i := range topics {
		seconds, err := TopicSeconds(&topics[i])
		if err != nil {
			return "", err
		}
		durations[i] = seconds
		total += seconds
	}

	for i := range topics {
		topics[i].TopicDuration = Format(durations[i])
	}

	return Format(total), nil
}
