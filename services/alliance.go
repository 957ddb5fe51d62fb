package services

import (
	"strings"

	"bd-election-analysis/models"

	"golang.org/x/text/unicode/norm"
)

// allianceRule maps a group of party-name fragments to one alliance
type allianceRule struct {
	code     models.AllianceCode
	keywords []string
}

// allianceRules is evaluated top to bottom and the first group with a keyword
// contained in the party name wins. Some keywords overlap across groups
// ("বাংলাদেশ জাতীয় পার্টি" vs "জাতীয় পার্টি"), so the order is part of the
// classification.
var allianceRules = normalizeRules([]allianceRule{
	{
		code: models.AllianceBNP,
		keywords: []string{
			"বাংলাদেশ জাতীয়তাবাদী দল",
			"বিএনপি",
			"BNP",
			"গণঅধিকার পরিষদ",
			"জিওপি",
			"National People's Party",
			"এনপিপি",
			"গণসংহতি আন্দোলন",
			"Nationalist Democratic Movement",
			"এনডিএম",
			"বিপ্লবী ওয়ার্কার্স পার্টি",
			"RWP",
			"বাংলাদেশ জাতীয় পার্টি",
			"বিজেপি",
			"জমিয়তে উলামায়ে ইসলাম",
			"JUIB",
		},
	},
	{
		code: models.Alliance11PA,
		keywords: []string{
			"বাংলাদেশ জামায়াতে ইসলামী",
			"Jamaat",
			"বাংলাদেশ খেলাফত মজলিস",
			"জাতীয় নাগরিক পার্টি",
			"এনসিপি",
			"এবি পার্টি",
			"আমার বাংলাদেশ পার্টি",
			"খেলাফত মজলিস",
			"বাংলাদেশ লেবার পার্টি",
			"বাংলাদেশ খেলাফত আন্দোলন",
			"লিবারেল ডেমোক্রেটিক পার্টি",
			"এলডিপি",
			"নেজামে ইসলাম",
			"বাংলাদেশ ডেভেলপমেন্ট পার্টি",
			"জাতীয় গণতান্ত্রিক পার্টি",
			"জাগপা",
		},
	},
	{
		code: models.AllianceNDF,
		keywords: []string{
			"জাতীয় পার্টি",
			"Jatiya Party",
			"সাংস্কৃতিক মুক্তিজোট",
			"Muktijote",
			"মুসলিম লীগ",
			"Muslim League",
		},
	},
	{
		code: models.AllianceDUF,
		keywords: []string{
			"কমিউনিস্ট পার্টি",
			"CPB",
			"সমাজতান্ত্রিক দল",
			"বাসদ",
			"BASAD",
			"মার্কসবাদী",
			"জাতীয় সমাজতান্ত্রিক দল",
			"গণ ফ্রন্ট",
			"গণফ্রন্ট",
		},
	},
	{
		code: models.AllianceGSA,
		keywords: []string{
			"বাংলাদেশ ইসলামী ফ্রন্ট",
			"সুপ্রীম পার্টি",
			"BSP",
			"ইসলামিক ফ্রন্ট বাংলাদেশ",
		},
	},
	{code: models.AllianceIAB, keywords: []string{"ইসলামী আন্দোলন"}},
	{code: models.AllianceIND, keywords: []string{"স্বতন্ত্র"}},
})

func normalizeRules(rules []allianceRule) []allianceRule {
	for i := range rules {
		for j, k := range rules[i].keywords {
			rules[i].keywords[j] = norm.NFKC.String(k)
		}
	}
	return rules
}

// Classify maps a free-text party name to its alliance. Names that match no
// rule, including the empty name, map to Others.
func Classify(party string) models.AllianceCode {
	code, _ := ClassifyParty(party)
	return code
}

// ClassifyParty is Classify that also reports whether a rule matched
func ClassifyParty(party string) (models.AllianceCode, bool) {
	p := strings.TrimSpace(norm.NFKC.String(party))
	if p == "" {
		return models.AllianceOthers, false
	}
	for _, rule := range allianceRules {
		for _, k := range rule.keywords {
			if strings.Contains(p, k) {
				return rule.code, true
			}
		}
	}
	return models.AllianceOthers, false
}
