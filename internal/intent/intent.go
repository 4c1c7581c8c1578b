package intent

import (
	"regexp"
	"strings"
)

// Router predicates inspect the raw user utterance and decide whether
// auxiliary side effects should run. They are pure and side-effect-free.
//
// The exact boundary of "is this an email-send request" is policy, not
// algorithm: the tables below are meant to be tuned, and new phrases should
// be added to the tables rather than to the control flow.

// DeliveryVerbs are verbs that signal the user wants content delivered
// somewhere.
var DeliveryVerbs = []string{
	"send", "email", "message", "tell", "share", "give",
	"write", "compose", "forward", "deliver", "inform", "ask",
}

// ContentNouns are kinds of content commonly requested for delivery.
var ContentNouns = []string{
	"joke", "quote", "advice", "weather", "reminder", "greeting",
	"update", "report", "summary", "poem", "story", "note", "letter",
}

// WeatherKeywords trigger the weather enrichment branch.
var WeatherKeywords = []string{
	"weather", "temperature", "rain", "raining", "forecast",
	"humidity", "wind", "sunny", "cloudy", "snow",
}

// TimeKeywords trigger the time enrichment branch.
var TimeKeywords = []string{
	"time", "date", "today", "now", "day", "month", "year", "hour",
	"clock", "morning", "afternoon", "evening", "tonight",
}

var (
	// EmailAddressPattern matches a local@domain.tld shaped token.
	EmailAddressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// sameEmailPatterns match references to a previously used address.
	sameEmailPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(same|that|previous|last)\s+(email|address)\b`),
		regexp.MustCompile(`\bto\s+(them|him|her)\b`),
		regexp.MustCompile(`\bit\s+to\s+the\s+same\b`),
	}

	// explicitSendPatterns match email-send requests that may carry no
	// literal address.
	explicitSendPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bsend\b.*\bto\b\s*\S+@\S+`),
		regexp.MustCompile(`\bemail\s+my\b`),
		regexp.MustCompile(`\bsend\s+(an\s+)?email\b`),
	}

	// weatherPhrases and timePhrases are canonical question forms that the
	// keyword tables alone would miss.
	weatherPhrases = []string{
		"how hot is it", "how cold is it", "what's it like outside", "whats it like outside",
	}
	timePhrases = []string{
		"what time", "what day", "what's the date", "whats the date",
	}

	wordSplitter = regexp.MustCompile(`[^a-z0-9']+`)
)

// ShouldSendEmail reports whether the utterance asks for an email dispatch.
// lastEmailUsed, when non-empty, is the recipient of the previous dispatch
// and enables "send it to the same email" style references.
func ShouldSendEmail(input, lastEmailUsed string) bool {
	in := strings.ToLower(input)
	words := tokenize(in)

	intentWord := containsAnyWord(words, DeliveryVerbs) || containsAnyWord(words, ContentNouns)

	if EmailAddressPattern.MatchString(in) && intentWord {
		return true
	}
	if lastEmailUsed != "" && intentWord && matchesAny(in, sameEmailPatterns) {
		return true
	}
	return matchesAny(in, explicitSendPatterns)
}

// ReferencesPreviousEmail reports whether the utterance points back at a
// previously used address ("the same email", "that address", "to them").
func ReferencesPreviousEmail(input string) bool {
	return matchesAny(strings.ToLower(input), sameEmailPatterns)
}

// ShouldFetchWeather reports whether the utterance asks about the weather.
func ShouldFetchWeather(input string) bool {
	in := strings.ToLower(input)
	if containsAnyWord(tokenize(in), WeatherKeywords) {
		return true
	}
	return containsAnyPhrase(in, weatherPhrases)
}

// ShouldFetchTime reports whether the utterance asks about the date or time.
func ShouldFetchTime(input string) bool {
	in := strings.ToLower(input)
	if containsAnyWord(tokenize(in), TimeKeywords) {
		return true
	}
	return containsAnyPhrase(in, timePhrases)
}

func tokenize(in string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordSplitter.Split(in, -1) {
		if w != "" {
			words[w] = true
		}
	}
	return words
}

func containsAnyWord(words map[string]bool, table []string) bool {
	for _, keyword := range table {
		if words[keyword] {
			return true
		}
	}
	return false
}

func containsAnyPhrase(in string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(in, phrase) {
			return true
		}
	}
	return false
}

func matchesAny(in string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(in) {
			return true
		}
	}
	return false
}
