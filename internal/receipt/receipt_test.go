package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

var wedding = Function{
	CustomerName: "Murugan",
	FunctionType: "Wedding",
	FunctionDate: "12/10/2026",
	Venue:        "Madurai",
}

func TestMOIReceipt(t *testing.T) {
	c := Contribution{
		ContributorName:  "Lakshmi",
		ContributorPlace: "Salem",
		Relationship:     "Aunt",
		LastCompany:      "Sri Murugan Traders",
		Amount:           "1001",
	}

	got := MOIReceipt(wedding, c, language.English)

	want := strings.Join([]string{
		"-----------------------------------------",
		"              MOI RECEIPT",
		"-----------------------------------------",
		"Name           : Lakshmi",
		"Place          : Salem",
		"Relationship   : Aunt",
		"Last Company   : Sri Murugan Traders",
		"MOI Amount     : ₹1001",
		"",
		"Function       : Wedding",
		"Date           : 12/10/2026",
		"-----------------------------------------",
		"Thank you for your presence and blessings!",
		"",
		"Contact: www.moireceipt.com | 8248960558",
		"Tamil / English",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestMOIReceiptFallbacks(t *testing.T) {
	got := MOIReceipt(wedding, Contribution{ContributorName: "Ravi", Amount: "501", ContributorPlace: "  "}, language.English)
	assert.Contains(t, got, "Place          : N/A\n")
	assert.Contains(t, got, "Relationship   : N/A\n")
	assert.Contains(t, got, "Last Company   : N/A\n")
}

func TestMOIReceiptTamil(t *testing.T) {
	got := MOIReceipt(wedding, Contribution{ContributorName: "Ravi", Amount: "501"}, language.Tamil)
	assert.True(t, strings.HasSuffix(got, "தமிழ் / English"))
	assert.Contains(t, got, "MOI RECEIPT")
}

func TestSummary(t *testing.T) {
	cs := []Contribution{
		{ContributorName: "Lakshmi", Amount: "1001"},
		{ContributorName: "Ravi", Amount: "2500"},
		{ContributorName: "Kumar", Amount: "abc"},
	}
	now := time.Date(2026, 10, 12, 15, 4, 5, 0, time.UTC)

	got := Summary(wedding, cs, language.English, now)

	assert.True(t, strings.HasPrefix(got, "Moirecipt - MOI Summary\n"))
	assert.Contains(t, got, "Customer: Murugan\n")
	assert.Contains(t, got, "Function Type: Wedding\n")
	assert.Contains(t, got, "Venue: Madurai\n")
	assert.Contains(t, got, "Total Contributions: 3\n")
	assert.Contains(t, got, "Total Amount: ₹3,501\n")
	assert.Contains(t, got, "1. Lakshmi - ₹1001\n2. Ravi - ₹2500\n3. Kumar - ₹abc\n")
	assert.True(t, strings.HasSuffix(got, "Generated: 12/10/2026, 3:04:05 pm"))
}

func TestSummaryTamil(t *testing.T) {
	got := Summary(wedding, nil, language.Tamil, time.Now())
	assert.True(t, strings.HasPrefix(got, "மோஇரிசிப்ட் - MOI சுருக்கம்"))
	assert.Contains(t, got, "மொத்த பங்களிப்புகள்: 0\n")
	assert.Contains(t, got, "மொத்த தொகை: ₹0\n")
}

func TestTotal(t *testing.T) {
	cs := []Contribution{{Amount: "100"}, {Amount: " 50.5 "}, {Amount: ""}, {Amount: "x"}}
	assert.InDelta(t, 150.5, Total(cs), 1e-9)
	assert.Zero(t, Total(nil))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{501, "501"},
		{3501, "3,501"},
		{1250.5, "1,250.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "FormatAmount(%v)", tt.in)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in    string
		tamil bool
	}{
		{"", false},
		{"en", false},
		{"ta", true},
		{"ta-IN", true},
		{"fr", false},
		{"!!", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tamil, isTamil(ParseLanguage(tt.in)), "ParseLanguage(%q)", tt.in)
	}
}
