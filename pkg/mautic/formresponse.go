package mautic

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// wellClass marks the container Mautic renders the form submission result in.
const wellClass = "well text-center"

var failurePrefixes = []string{
	"Errors",
	"This form is no longer available",
}

// ExtractFormMessage returns the text of the result container in a form
// submission page. Text chunks are trimmed and joined without separators.
//
// Nesting is not tracked: any closing div seen inside the container ends it,
// so text after a nested div is not collected.
func ExtractFormMessage(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inWell := false
	var message strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return message.String(), err
			}
			return message.String(), nil

		case html.StartTagToken:
			if isWellDiv(z) {
				inWell = true
			}

		case html.SelfClosingTagToken:
			// <div/> opens and closes in one token.
			name, _ := z.TagName()
			if string(name) == "div" {
				inWell = false
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if inWell && string(name) == "div" {
				inWell = false
			}

		case html.TextToken:
			if inWell {
				message.WriteString(strings.TrimSpace(string(z.Text())))
			}
		}
	}
}

func isWellDiv(z *html.Tokenizer) bool {
	name, hasAttr := z.TagName()
	if string(name) != "div" {
		return false
	}
	found := false
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "class" && strings.Contains(string(val), wellClass) {
			found = true
		}
	}
	return found
}

// FormSubmissionSucceeded classifies an extracted message.
func FormSubmissionSucceeded(message string) bool {
	for _, prefix := range failurePrefixes {
		if strings.HasPrefix(message, prefix) {
			return false
		}
	}
	return true
}
