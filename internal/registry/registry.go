package registry

import "regexp"

// pattern pairs a registry name with the grammar of the identifiers it
// issues. Patterns are word-boundary anchored and applied to the whole text.
type pattern struct {
	registry string
	re       *regexp.Regexp
}

var patterns = []pattern{
	{"ClinicalTrials.gov", regexp.MustCompile(`\bNCT\d{6,8}\b`)},
	{"EU Clinical Trials Register", regexp.MustCompile(`\bEUCTR\d{4}-\d{6}-\d{2}(?:-[A-Za-z]{2,3})?\b`)},
	{"EudraCT", regexp.MustCompile(`\bEudraCT ?\d{4}-\d{6}-\d{2}\b`)},
	{"ISRCTN", regexp.MustCompile(`\bISRCTN\d{6,8}\b`)},
	{"UMIN-CTR", regexp.MustCompile(`\bUMIN\d{6,8}\b`)},
	{"ChiCTR", regexp.MustCompile(`\bChiCTR(?:-[A-Za-z]{2,3})?-\d{6,8}\b`)},
	{"ANZCTR", regexp.MustCompile(`\bACTRN\d{14}\b`)},
	{"JPRN", regexp.MustCompile(`\bJPRN-[A-Za-z]+\d{6,8}\b`)},
	{"JapicCTI", regexp.MustCompile(`\bJapicCTI-\d{6}\b`)},
	{"CTRI", regexp.MustCompile(`\bCTRI/\d{4}/\d{2}/\d{6}\b`)},
	{"IRCT", regexp.MustCompile(`\bIRCT\d{8,15}(?:[A-Za-z]\d+)?\b`)},
	{"IRCT (dated)", regexp.MustCompile(`\bIRCT/\d{4}/\d{2}/\d{2}/\d+\b`)},
	{"DRKS", regexp.MustCompile(`\bDRKS\d{6,8}\b`)},
	{"NTR", regexp.MustCompile(`\bNTR\d{4,8}\b`)},
	{"REPEC", regexp.MustCompile(`\bPER-\d{3,4}-\d{2}\b`)},
	{"CRiS", regexp.MustCompile(`\bKCT\d{6,8}\b`)},
	{"SLCTR", regexp.MustCompile(`\bSLCTR/\d{4}/\d{3}\b`)},
	{"ReBec", regexp.MustCompile(`\bRBR-[0-9A-Za-z]{6,10}\b`)},
	{"PACTR", regexp.MustCompile(`\bPACTR\d{14,20}\b`)},
	{"TCTR", regexp.MustCompile(`\bTCTR\d{13}\b`)},
	{"CRiS-KCT", regexp.MustCompile(`\bCRiS-KCT\d{7}\b`)},
	{"LBCTR", regexp.MustCompile(`\bLBCTR\d{8,12}\b`)},
	{"Health Canada CTD", regexp.MustCompile(`\bHC-CTD-\d{4}-\d{4}\b`)},
	{"WHO UTN", regexp.MustCompile(`\bU1111-\d{4}-\d{4}\b`)},
	{"UCTR", regexp.MustCompile(`\bUCTR\d{11,15}\b`)},
	{"UCTR (dashed)", regexp.MustCompile(`\bUCTR-\d{5,7}\b`)},
}

// Find scans text with every registry pattern and returns the union of all
// matches, deduplicated by exact string value. Matching is literal: no
// canonicalization across equivalent spellings, no fuzzy matching, and an
// identifier broken by a layout boundary will not match. An empty result is
// a valid outcome, not an error.
//
// The returned order is first-seen in pattern order, so repeated runs over
// the same text yield the same slice.
func Find(text string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range patterns {
		for _, m := range p.re.FindAllString(text, -1) {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			ids = append(ids, m)
		}
	}
	return ids
}

// Lookup returns the registry name for an identifier that fully matches one
// of the known grammars.
func Lookup(id string) (string, bool) {
	for _, p := range patterns {
		if m := p.re.FindString(id); m == id {
			return p.registry, true
		}
	}
	return "", false
}
