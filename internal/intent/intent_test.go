package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldSendEmail(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		lastEmailUsed string
		want          bool
	}{
		{
			name:  "address with content noun",
			input: "send a joke to bob@x.com",
			want:  true,
		},
		{
			name:  "address with delivery verb",
			input: "forward this to alice@example.org",
			want:  true,
		},
		{
			name:  "weather question is not an email request",
			input: "what's the weather today",
			want:  false,
		},
		{
			name:  "content noun without address or reference",
			input: "tell me a joke",
			want:  false,
		},
		{
			name:          "same email reference with prior address",
			input:         "send it to the same email",
			lastEmailUsed: "a@b.com",
			want:          true,
		},
		{
			name:  "same email reference without prior address",
			input: "send it to the same email",
			want:  false,
		},
		{
			name:          "that address reference with prior address",
			input:         "share the quote with that address again",
			lastEmailUsed: "a@b.com",
			want:          true,
		},
		{
			name:  "explicit email my pattern without literal address",
			input: "email my boss the quarterly report",
			want:  true,
		},
		{
			name:  "explicit send an email pattern",
			input: "could you send an email about the outage",
			want:  true,
		},
		{
			name:  "bare address without intent word",
			input: "my address is bob@x.com",
			want:  false,
		},
		{
			name:  "empty input",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldSendEmail(tt.input, tt.lastEmailUsed))
		})
	}
}

func TestShouldFetchWeather(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"is it raining in Cairo?", true},
		{"what's the weather today", true},
		{"what is the temperature outside", true},
		{"how hot is it right now", true},
		{"tell me a joke", false},
		{"send a quote to bob@x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldFetchWeather(tt.input))
		})
	}
}

func TestShouldFetchTime(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"what time is it", true},
		{"what's the date", true},
		{"what day is today", true},
		{"tell me a joke", false},
		{"send a quote to bob@x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldFetchTime(tt.input))
		})
	}
}

func TestReferencesPreviousEmail(t *testing.T) {
	assert.True(t, ReferencesPreviousEmail("send it to the same email"))
	assert.True(t, ReferencesPreviousEmail("use that address please"))
	assert.True(t, ReferencesPreviousEmail("send the joke to them"))
	assert.False(t, ReferencesPreviousEmail("send it to bob@x.com"))
}
