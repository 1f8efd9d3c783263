package types

// LessonDurations lists the bookable lesson lengths in minutes.
var LessonDurations = []int{30, 45, 60, 90, 120}

// IsValidDuration reports whether minutes is a bookable lesson length.
func IsValidDuration(minutes int) bool {
	for _, d := range LessonDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// TopicVocabulary is the fixed set of topic tags a mentor may attach to a
// completed session.
var TopicVocabulary = []string{
	"fundamentals",
	"grammar",
	"vocabulary",
	"pronunciation",
	"conversation",
	"reading",
	"writing",
	"exam-preparation",
	"business",
	"homework-review",
}

// IsValidTopic reports whether topic belongs to the fixed vocabulary.
func IsValidTopic(topic string) bool {
	for _, t := range TopicVocabulary {
		if t == topic {
			return true
		}
	}
	return false
}

// IsValidMasteryLevel reports whether level is a valid mastery estimate:
// 0 through 100 in steps of 5.
func IsValidMasteryLevel(level int) bool {
	return level >= 0 && level <= 100 && level%5 == 0
}
