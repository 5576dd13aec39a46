package common

import "regexp"

// ReplaceFirst compiles pattern and replaces its first match in text with repl.
// Text without a match is returned unchanged.
// Returns an error if the pattern is invalid.
func ReplaceFirst(pattern, text, repl string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return text, err
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text, nil
	}
	return text[:loc[0]] + repl + text[loc[1]:], nil
}
