package services

import (
	"strings"
	"testing"

	"bd-election-analysis/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		party string
		want  models.AllianceCode
	}{
		{"bnp full name", "বাংলাদেশ জাতীয়তাবাদী দল", models.AllianceBNP},
		{"bnp latin", "BNP", models.AllianceBNP},
		{"bjp before jatiya party", "বাংলাদেশ জাতীয় পার্টি", models.AllianceBNP},
		{"jatiya party", "জাতীয় পার্টি", models.AllianceNDF},
		{"jamaat", "বাংলাদেশ জামায়াতে ইসলামী", models.Alliance11PA},
		{"ncp", "জাতীয় নাগরিক পার্টি", models.Alliance11PA},
		{"islami andolan", "ইসলামী আন্দোলন বাংলাদেশ", models.AllianceIAB},
		{"independent", "স্বতন্ত্র", models.AllianceIND},
		{"unknown party", "নতুন দল", models.AllianceOthers},
		{"empty", "", models.AllianceOthers},
		{"surrounding whitespace", "  BNP\t", models.AllianceBNP},
		{"first group wins", "BNP ও জাতীয় পার্টি", models.AllianceBNP},
		{"decomposed bnp full name", norm.NFD.String("বাংলাদেশ জাতীয়তাবাদী দল"), models.AllianceBNP},
		{"decomposed independent", norm.NFD.String("স্বতন্ত্র"), models.AllianceIND},
		{"fullwidth latin", "ＢＮＰ", models.AllianceBNP},
		{"precomposed nukta", "জাতী\u09df নাগরিক পার্টি", models.Alliance11PA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.party))
		})
	}
}

func TestClassifyParty(t *testing.T) {
	code, matched := ClassifyParty("Jamaat")
	assert.True(t, matched)
	assert.Equal(t, models.Alliance11PA, code)

	code, matched = ClassifyParty("Unknown")
	assert.False(t, matched)
	assert.Equal(t, models.AllianceOthers, code)

	_, matched = ClassifyParty("   ")
	assert.False(t, matched)
}

func TestClassifyIsDeterministic(t *testing.T) {
	for _, party := range []string{"বিএনপি", "জাতীয় পার্টি", "x"} {
		assert.Equal(t, Classify(party), Classify(party))
	}
}

func TestClassifyNormalizesInput(t *testing.T) {
	name := "বাংলাদেশ জাতীয়তাবাদী দল"
	decomposed := norm.NFD.String(name)
	assert.Contains(t, decomposed, "\u09af\u09bc")

	// precomposed য় (U+09DF) normalizes to য + nukta
	precomposed := strings.ReplaceAll(decomposed, "\u09af\u09bc", "\u09df")
	require.NotEqual(t, decomposed, precomposed)

	for _, party := range []string{decomposed, precomposed, "ＢＮＰ"} {
		code, matched := ClassifyParty(party)
		assert.True(t, matched, party)
		assert.Equal(t, models.AllianceBNP, code, party)
	}
}
