// Package arabic converts logical-order Arabic text into the visual-order
// string a direction-agnostic renderer expects: contextual glyph shaping
// into the Unicode Arabic Presentation Forms-B block, followed by
// bidirectional reordering with a right-to-left base direction.
package arabic

// joining describes how an Arabic letter connects to its neighbors.
type joining uint8

const (
	// joinNone letters never connect (hamza).
	joinNone joining = iota
	// joinRight letters connect to the preceding letter only
	// (alef, dal, thal, reh, zain, waw, teh marbuta, alef maksura).
	joinRight
	// joinDual letters connect on both sides.
	joinDual
)

// forms holds the four presentation forms of a letter. Right-joining
// letters have no initial/medial forms; those slots repeat the
// isolated/final forms so the shaper can index unconditionally.
type forms struct {
	isolated rune
	final    rune
	initial  rune
	medial   rune
	joins    joining
}

const (
	lam     = 'ل'
	tatweel = 'ـ'
)

// letters maps each Arabic-block letter to its presentation forms
// (Arabic Presentation Forms-B, U+FE70..U+FEFF).
var letters = map[rune]forms{
	'ء': {'ﺀ', 'ﺀ', 'ﺀ', 'ﺀ', joinNone},  // hamza
	'آ': {'ﺁ', 'ﺂ', 'ﺁ', 'ﺂ', joinRight}, // alef madda
	'أ': {'ﺃ', 'ﺄ', 'ﺃ', 'ﺄ', joinRight}, // alef hamza above
	'ؤ': {'ﺅ', 'ﺆ', 'ﺅ', 'ﺆ', joinRight}, // waw hamza
	'إ': {'ﺇ', 'ﺈ', 'ﺇ', 'ﺈ', joinRight}, // alef hamza below
	'ئ': {'ﺉ', 'ﺊ', 'ﺋ', 'ﺌ', joinDual},  // yeh hamza
	'ا': {'ﺍ', 'ﺎ', 'ﺍ', 'ﺎ', joinRight}, // alef
	'ب': {'ﺏ', 'ﺐ', 'ﺑ', 'ﺒ', joinDual},  // beh
	'ة': {'ﺓ', 'ﺔ', 'ﺓ', 'ﺔ', joinRight}, // teh marbuta
	'ت': {'ﺕ', 'ﺖ', 'ﺗ', 'ﺘ', joinDual},  // teh
	'ث': {'ﺙ', 'ﺚ', 'ﺛ', 'ﺜ', joinDual},  // theh
	'ج': {'ﺝ', 'ﺞ', 'ﺟ', 'ﺠ', joinDual},  // jeem
	'ح': {'ﺡ', 'ﺢ', 'ﺣ', 'ﺤ', joinDual},  // hah
	'خ': {'ﺥ', 'ﺦ', 'ﺧ', 'ﺨ', joinDual},  // khah
	'د': {'ﺩ', 'ﺪ', 'ﺩ', 'ﺪ', joinRight}, // dal
	'ذ': {'ﺫ', 'ﺬ', 'ﺫ', 'ﺬ', joinRight}, // thal
	'ر': {'ﺭ', 'ﺮ', 'ﺭ', 'ﺮ', joinRight}, // reh
	'ز': {'ﺯ', 'ﺰ', 'ﺯ', 'ﺰ', joinRight}, // zain
	'س': {'ﺱ', 'ﺲ', 'ﺳ', 'ﺴ', joinDual},  // seen
	'ش': {'ﺵ', 'ﺶ', 'ﺷ', 'ﺸ', joinDual},  // sheen
	'ص': {'ﺹ', 'ﺺ', 'ﺻ', 'ﺼ', joinDual},  // sad
	'ض': {'ﺽ', 'ﺾ', 'ﺿ', 'ﻀ', joinDual},  // dad
	'ط': {'ﻁ', 'ﻂ', 'ﻃ', 'ﻄ', joinDual},  // tah
	'ظ': {'ﻅ', 'ﻆ', 'ﻇ', 'ﻈ', joinDual},  // zah
	'ع': {'ﻉ', 'ﻊ', 'ﻋ', 'ﻌ', joinDual},  // ain
	'غ': {'ﻍ', 'ﻎ', 'ﻏ', 'ﻐ', joinDual},  // ghain
	'ـ': {'ـ', 'ـ', 'ـ', 'ـ', joinDual},  // tatweel
	'ف': {'ﻑ', 'ﻒ', 'ﻓ', 'ﻔ', joinDual},  // feh
	'ق': {'ﻕ', 'ﻖ', 'ﻗ', 'ﻘ', joinDual},  // qaf
	'ك': {'ﻙ', 'ﻚ', 'ﻛ', 'ﻜ', joinDual},  // kaf
	'ل': {'ﻝ', 'ﻞ', 'ﻟ', 'ﻠ', joinDual},  // lam
	'م': {'ﻡ', 'ﻢ', 'ﻣ', 'ﻤ', joinDual},  // meem
	'ن': {'ﻥ', 'ﻦ', 'ﻧ', 'ﻨ', joinDual},  // noon
	'ه': {'ﻩ', 'ﻪ', 'ﻫ', 'ﻬ', joinDual},  // heh
	'و': {'ﻭ', 'ﻮ', 'ﻭ', 'ﻮ', joinRight}, // waw
	'ى': {'ﻯ', 'ﻰ', 'ﻯ', 'ﻰ', joinRight}, // alef maksura
	'ي': {'ﻱ', 'ﻲ', 'ﻳ', 'ﻴ', joinDual},  // yeh
}

// lamAlefLigature holds the mandatory lam-alef ligature forms, keyed by
// the alef variant that follows the lam.
type lamAlefLigature struct {
	isolated rune
	final    rune
}

var lamAlef = map[rune]lamAlefLigature{
	'آ': {'ﻵ', 'ﻶ'}, // lam + alef madda
	'أ': {'ﻷ', 'ﻸ'}, // lam + alef hamza above
	'إ': {'ﻹ', 'ﻺ'}, // lam + alef hamza below
	'ا': {'ﻻ', 'ﻼ'}, // lam + alef
}

// isTransparent reports whether r is a combining mark (harakat and
// Quranic annotation signs) that neither takes a joined form nor breaks
// the joining context of surrounding letters.
func isTransparent(r rune) bool {
	return (r >= 0x0610 && r <= 0x061A) ||
		(r >= 0x064B && r <= 0x065F) ||
		r == 0x0670
}

// prevConnects reports whether the letter before position i connects
// forward into position i. Transparent marks are skipped.
func prevConnects(runes []rune, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if isTransparent(runes[j]) {
			continue
		}
		lf, ok := letters[runes[j]]
		return ok && lf.joins == joinDual
	}
	return false
}

// nextAccepts reports whether the letter after position i can receive a
// connection from position i. Every letter except hamza has a final
// form, so any non-hamza table entry qualifies.
func nextAccepts(runes []rune, i int) bool {
	for j := i + 1; j < len(runes); j++ {
		if isTransparent(runes[j]) {
			continue
		}
		lf, ok := letters[runes[j]]
		return ok && lf.joins != joinNone
	}
	return false
}

// nextLetter returns the index of the first non-transparent rune after i,
// or -1 if none exists.
func nextLetter(runes []rune, i int) int {
	for j := i + 1; j < len(runes); j++ {
		if !isTransparent(runes[j]) {
			return j
		}
	}
	return -1
}

// Shape maps each Arabic letter in s to its joining-context-dependent
// presentation form. Mandatory lam-alef ligatures are substituted.
// Non-Arabic runes pass through unchanged and break the joining context.
func Shape(s string) string {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if isTransparent(r) {
			out = append(out, r)
			continue
		}

		lf, ok := letters[r]
		if !ok {
			out = append(out, r)
			continue
		}

		// Lam followed by an alef variant collapses into a ligature.
		if r == lam {
			if j := nextLetter(runes, i); j >= 0 {
				if lig, ok := lamAlef[runes[j]]; ok {
					g := lig.isolated
					if prevConnects(runes, i) {
						g = lig.final
					}
					out = append(out, g)
					// Marks between lam and alef ride along after the ligature.
					out = append(out, runes[i+1:j]...)
					i = j
					continue
				}
			}
		}

		prev := prevConnects(runes, i)
		next := nextAccepts(runes, i) && lf.joins == joinDual

		var g rune
		switch {
		case prev && next:
			g = lf.medial
		case prev && lf.joins != joinNone:
			g = lf.final
		case next:
			g = lf.initial
		default:
			g = lf.isolated
		}
		out = append(out, g)
	}

	return string(out)
}

// containsArabic reports whether s has at least one rune in an Arabic
// Unicode block, including the presentation forms blocks.
func containsArabic(s string) bool {
	for _, r := range s {
		if (r >= 0x0600 && r <= 0x06FF) ||
			(r >= 0x0750 && r <= 0x077F) ||
			(r >= 0x08A0 && r <= 0x08FF) ||
			(r >= 0xFB50 && r <= 0xFDFF) ||
			(r >= 0xFE70 && r <= 0xFEFF) {
			return true
		}
	}
	return false
}
