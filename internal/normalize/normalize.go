package normalize

import (
	"regexp"
	"strings"
)

var releaseTokens = []string{
	// resolution
	"2160p", "1080p", "1080i", "720p", "576p", "480p", "4k", "uhd", "fhd",
	// source
	"bluray", "blu-ray", "bdrip", "brrip", "bdremux", "remux", "webrip", "web-dl", "webdl", "web",
	"hdtv", "pdtv", "dvdrip", "dvd", "hdrip", "hdcam", "amzn", "nf", "dsnp", "hmax", "atvp",
	// codec
	"x264", "x265", "h264", "h265", "h 264", "h 265", "hevc", "avc", "xvid", "divx", "av1", "vp9",
	// audio
	"aac", "ac3", "eac3", "ddp", "dd", "dts-hd ma", "dts-hd", "dts ma", "dts", "truehd", "atmos", "flac", "mp3", "opus", "dual audio",
	// hdr and bit depth
	"hdr", "hdr10", "hdr10plus", "dv", "dovi", "10bit", "8bit", "sdr",
	// edition and release flags
	"extended", "unrated", "remastered", "directors cut", "proper", "repack", "internal", "limited",
	"multi", "subbed", "dubbed", "complete",
}

var (
	separatorPattern  = regexp.MustCompile(`[\\/._]+`)
	audioCodecPattern = regexp.MustCompile(`(?i)\b(?:aac|e?ac3|ddp?|dts|truehd|flac|opus|mp3)\s?\d(?:\s?\d)?\b`)
	vocabularyPattern = buildVocabularyPattern(releaseTokens)
	groupPattern      = regexp.MustCompile(`(?i)\b(` + vocabularyAlternation(releaseTokens) + `)-[a-z0-9]{2,16}\s*$`)
	trailingGroup     = regexp.MustCompile(`(\S)-([A-Za-z0-9]{2,12})\s*$`)
	channelPattern    = regexp.MustCompile(`\b[2578] [01]\b`)
	emptyBrackets     = regexp.MustCompile(`[\(\[\{]\s*[\)\]\}]`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// Clean returns a cleaned candidate title. Empty or garbage input yields "".
func Clean(text string) string {
	s := strings.TrimSpace(text)
	for range maxPasses {
		next := cleanPass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// maxPasses bounds the fixpoint loop; one pass settles almost every input.
const maxPasses = 4

func cleanPass(text string) string {
	if text == "" {
		return ""
	}
	s := separatorPattern.ReplaceAllString(text, " ")
	s = groupPattern.ReplaceAllString(s, "$1")
	s = stripTrailingGroup(s)
	s = audioCodecPattern.ReplaceAllString(s, " ")
	s = vocabularyPattern.ReplaceAllString(s, " ")
	s = channelPattern.ReplaceAllString(s, " ")
	s = emptyBrackets.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.Trim(s, " -")
}

// stripTrailingGroup drops a release group glued to the last token, as in
// "S01E01-RARBG". Hyphenated title words such as "Spider-Man" survive: the
// group must follow a digit, be upper case, or mix letters and digits.
func stripTrailingGroup(s string) string {
	m := trailingGroup.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	prev, group := s[m[2]:m[3]], s[m[4]:m[5]]
	if !looksLikeGroup(group, prev[0] >= '0' && prev[0] <= '9') {
		return s
	}
	return s[:m[3]]
}

func looksLikeGroup(group string, afterDigit bool) bool {
	var letters, lower, digits bool
	for _, r := range group {
		switch {
		case r >= 'a' && r <= 'z':
			letters, lower = true, true
		case r >= 'A' && r <= 'Z':
			letters = true
		default:
			digits = true
		}
	}
	if !letters {
		return false
	}
	return afterDigit || !lower || digits
}

func vocabularyAlternation(tokens []string) string {
	quoted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		q := regexp.QuoteMeta(tok)
		quoted = append(quoted, strings.ReplaceAll(q, " ", `\s`))
	}
	return strings.Join(quoted, "|")
}

func buildVocabularyPattern(tokens []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + vocabularyAlternation(tokens) + `)\b`)
}
