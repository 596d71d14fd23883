package extraction

import (
	"regexp"
	"strings"

	"github.com/daniel/resume-sentinel/internal/types"
)

// Patterns for recovering contact details when the model response is
// unusable.
var (
	fallbackEmailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	fallbackPhoneRe    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	fallbackLinkedInRe = regexp.MustCompile(`linkedin\.com/in/[\w-]+`)
	fallbackGitHubRe   = regexp.MustCompile(`github\.com/[\w-]+`)
	fallbackWebsiteRe  = regexp.MustCompile(`https?://(?:[-\w.])+(?:\.[a-zA-Z]{2,})+(?:/[^\s]*)?`)
)

// headerNoiseWords disqualify a line from being the candidate's name.
var headerNoiseWords = []string{"email", "phone", "address", "experience", "education"}

// fallbackCandidate recovers what it can with pattern matching. The name is
// guessed from the first plausible header line.
func fallbackCandidate(text string) types.CandidateInfo {
	info := types.CandidateInfo{FullName: guessName(text)}

	if m := fallbackEmailRe.FindString(text); m != "" {
		info.Email = m
	}
	if m := fallbackPhoneRe.FindString(text); m != "" {
		info.Phone = m
	}
	if m := fallbackLinkedInRe.FindString(text); m != "" {
		info.LinkedIn = "https://" + m
	}
	if m := fallbackGitHubRe.FindString(text); m != "" {
		info.GitHub = "https://" + m
	}
	if m := fallbackWebsiteRe.FindString(text); m != "" {
		info.Website = m
	}
	return info
}

func guessName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) <= 3 || len(line) >= 50 {
			continue
		}
		lower := strings.ToLower(line)
		noisy := false
		for _, word := range headerNoiseWords {
			if strings.Contains(lower, word) {
				noisy = true
				break
			}
		}
		if !noisy {
			return line
		}
	}
	return unknownCandidate
}
