package phoneme

import "strings"

// arpabetIPA maps ARPABET phonemes (without stress markers) to IPA symbols.
var arpabetIPA = map[string]string{
	"AA": "\u0251",       // ɑ
	"AE": "\u00e6",       // æ
	"AH": "\u028c",       // ʌ
	"AO": "\u0254",       // ɔ
	"AW": "a\u028a",      // aʊ
	"AY": "a\u026a",      // aɪ
	"B":  "b",
	"CH": "t\u0283",      // tʃ
	"D":  "d",
	"DH": "\u00f0",       // ð
	"EH": "\u025b",       // ɛ
	"ER": "\u025d",       // ɝ
	"EY": "e\u026a",      // eɪ
	"F":  "f",
	"G":  "\u0261",       // ɡ
	"HH": "h",
	"IH": "\u026a",       // ɪ
	"IY": "i",
	"JH": "d\u0292",      // dʒ
	"K":  "k",
	"L":  "l",
	"M":  "m",
	"N":  "n",
	"NG": "\u014b",       // ŋ
	"OW": "o\u028a",      // oʊ
	"OY": "\u0254\u026a", // ɔɪ
	"P":  "p",
	"R":  "\u0279",       // ɹ
	"S":  "s",
	"SH": "\u0283",       // ʃ
	"T":  "t",
	"TH": "\u03b8",       // θ
	"UH": "\u028a",       // ʊ
	"UW": "u",
	"V":  "v",
	"W":  "w",
	"Y":  "j",
	"Z":  "z",
	"ZH": "\u0292",       // ʒ
}

// TokenIPA converts a single ARPABET token to IPA. Unknown tokens report false.
func TokenIPA(t Token) (string, bool) {
	ipa, ok := arpabetIPA[StripStress(string(t))]
	return ipa, ok
}

// IPA renders the sequence as a slash delimited IPA transcription such as
// "/hʌloʊ/". Stress is not rendered and unknown tokens are dropped.
func (s Sequence) IPA() string {
	var b strings.Builder
	b.WriteByte('/')
	for _, t := range s {
		if ipa, ok := TokenIPA(t); ok {
			b.WriteString(ipa)
		}
	}
	b.WriteByte('/')
	return b.String()
}
