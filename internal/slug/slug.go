// Package slug derives URL-safe identifiers from arbitrary text.
//
// Every call site that turns human text into a URL segment or DOM id (tag
// pages, accordion ids, heading anchors) goes through Strict so the same
// title always yields the same slug.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins words in a slug.
const Separator = "-"

// Strict slugifies s the way the site's tag pages have always been named:
//
//  1. symbols and letters with a conventional spelling are replaced
//     ("&" becomes "and", "ß" becomes "ss", "ø" becomes "o");
//  2. remaining accented letters lose their marks;
//  3. the separator itself counts as whitespace, and everything else
//     outside [A-Za-z0-9] is removed ("node.js" becomes "nodejs");
//  4. whitespace runs become one separator and the result is lowercased.
func Strict(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFC.String(s) {
		if rep, ok := charMap[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteString(fold(r))
	}

	var out strings.Builder
	out.Grow(b.Len())
	pending := false
	for _, r := range b.String() {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pending && out.Len() > 0 {
				out.WriteString(Separator)
			}
			pending = false
			out.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r), string(r) == Separator:
			pending = true
		}
	}
	return out.String()
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold strips combining marks and compatibility forms from r.
func fold(r rune) string {
	if r < unicode.MaxASCII {
		return string(r)
	}
	folded, _, err := transform.String(stripMarks, string(r))
	if err != nil {
		return ""
	}
	return folded
}

// charMap holds replacements applied before accents are folded. Letters
// whose marks fold away on their own (é, ü, ñ) are not listed.
var charMap = map[rune]string{
	'$': "dollar",
	'%': "percent",
	'&': "and",
	'<': "less",
	'>': "greater",
	'|': "or",
	'¢': "cent",
	'£': "pound",
	'¤': "currency",
	'¥': "yen",
	'©': "(c)",
	'ª': "a",
	'®': "(r)",
	'º': "o",
	'Æ': "AE",
	'æ': "ae",
	'Ð': "D",
	'ð': "d",
	'Đ': "D",
	'đ': "d",
	'Ø': "O",
	'ø': "o",
	'Þ': "TH",
	'þ': "th",
	'ß': "ss",
	'Œ': "OE",
	'œ': "oe",
	'Ł': "L",
	'ł': "l",
	'Ħ': "H",
	'ħ': "h",
	'ı': "i",
	'Ŋ': "N",
	'ŋ': "n",
	'€': "euro",
	'₹': "indian rupee",
	'₽': "russian ruble",
	'₿': "bitcoin",
	'∑': "sum",
	'∞': "infinity",
	'♥': "love",
	'™': "tm",
	'℠': "sm",
}
