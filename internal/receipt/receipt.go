// Package receipt renders MOI (ceremonial gift) receipts and function
// summaries as plain text for 58mm thermal printers.
package receipt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	rupee     = "₹"
	notAvail  = "N/A"
	rule      = "-----------------------------------------"
	shortRule = "--------------------------------"
	dblRule   = "================================"
)

// Function describes the ceremony the gifts were recorded at.
type Function struct {
	CustomerName string `yaml:"customer_name"`
	FunctionType string `yaml:"function_type"`
	FunctionDate string `yaml:"function_date"`
	Venue        string `yaml:"venue"`
}

// Contribution is one recorded gift.
type Contribution struct {
	ReceiptNumber    string `yaml:"receipt_number"`
	ContributorName  string `yaml:"contributor_name"`
	ContributorPlace string `yaml:"contributor_place"`
	Relationship     string `yaml:"relationship"`
	LastCompany      string `yaml:"last_company"`
	Amount           string `yaml:"amount"`
	PaymentMode      string `yaml:"payment_mode"`
}

var supported = []language.Tag{language.English, language.Tamil}

var matcher = language.NewMatcher(supported)

// amountPrinter formats totals with Indian digit grouping.
var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

// ParseLanguage resolves a BCP 47 tag to English or Tamil. Anything else,
// including an empty string, resolves to English.
func ParseLanguage(s string) language.Tag {
	if s == "" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

func isTamil(lang language.Tag) bool {
	base, _ := lang.Base()
	tamil, _ := language.Tamil.Base()
	return base == tamil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvail
	}
	return s
}

// MOIReceipt renders the receipt for one contribution.
func MOIReceipt(fn Function, c Contribution, lang language.Tag) string {
	langLine := "Tamil / English"
	if isTamil(lang) {
		langLine = "தமிழ் / English"
	}

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "              MOI RECEIPT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Name           : %s\n", c.ContributorName)
	fmt.Fprintf(&b, "Place          : %s\n", orNA(c.ContributorPlace))
	fmt.Fprintf(&b, "Relationship   : %s\n", orNA(c.Relationship))
	fmt.Fprintf(&b, "Last Company   : %s\n", orNA(c.LastCompany))
	fmt.Fprintf(&b, "MOI Amount     : %s%s\n", rupee, c.Amount)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Function       : %s\n", fn.FunctionType)
	fmt.Fprintf(&b, "Date           : %s\n", fn.FunctionDate)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Thank you for your presence and blessings!")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Contact: www.moireceipt.com | 8248960558")
	b.WriteString(langLine)
	return b.String()
}

// summaryLabels holds the per-language headings of the summary.
type summaryLabels struct {
	title, details, customer, functionType, date, venue string
	contributions, totalCount, totalAmount, list, generated string
}

var englishLabels = summaryLabels{
	title:         "Moirecipt - MOI Summary",
	details:       "FUNCTION DETAILS",
	customer:      "Customer",
	functionType:  "Function Type",
	date:          "Date",
	venue:         "Venue",
	contributions: "CONTRIBUTION SUMMARY",
	totalCount:    "Total Contributions",
	totalAmount:   "Total Amount",
	list:          "CONTRIBUTORS LIST",
	generated:     "Generated",
}

var tamilLabels = summaryLabels{
	title:         "மோஇரிசிப்ட் - MOI சுருக்கம்",
	details:       "நிகழ்ச்சி விவரங்கள்",
	customer:      "வாடிக்கையாளர்",
	functionType:  "நிகழ்ச்சி வகை",
	date:          "தேதி",
	venue:         "இடம்",
	contributions: "பங்களிப்பு சுருக்கம்",
	totalCount:    "மொத்த பங்களிப்புகள்",
	totalAmount:   "மொத்த தொகை",
	list:          "பங்களிப்பாளர்கள் பட்டியல்",
	generated:     "உருவாக்கப்பட்ட நேரம்",
}

// Summary renders the function summary: details, totals and a numbered
// contributor list. Amounts that do not parse count as zero.
func Summary(fn Function, cs []Contribution, lang language.Tag, now time.Time) string {
	l := englishLabels
	if isTamil(lang) {
		l = tamilLabels
	}

	var b strings.Builder
	fmt.Fprintln(&b, l.title)
	fmt.Fprintln(&b, dblRule)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, l.details)
	fmt.Fprintln(&b, shortRule)
	fmt.Fprintf(&b, "%s: %s\n", l.customer, fn.CustomerName)
	fmt.Fprintf(&b, "%s: %s\n", l.functionType, fn.FunctionType)
	fmt.Fprintf(&b, "%s: %s\n", l.date, fn.FunctionDate)
	fmt.Fprintf(&b, "%s: %s\n", l.venue, fn.Venue)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, l.contributions)
	fmt.Fprintln(&b, dblRule)
	fmt.Fprintf(&b, "%s: %d\n", l.totalCount, len(cs))
	fmt.Fprintf(&b, "%s: %s%s\n", l.totalAmount, rupee, FormatAmount(Total(cs)))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, l.list)
	fmt.Fprintln(&b, shortRule)
	for i, c := range cs {
		fmt.Fprintf(&b, "%d. %s - %s%s\n", i+1, c.ContributorName, rupee, c.Amount)
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "%s: %s", l.generated, now.Format("02/01/2006, 3:04:05 pm"))
	return b.String()
}

// Total sums the contribution amounts.
func Total(cs []Contribution) float64 {
	var sum float64
	for _, c := range cs {
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Amount), 64)
		if err != nil {
			continue
		}
		sum += v
	}
	return sum
}

// FormatAmount formats v with en-IN digit grouping and at most three
// fraction digits.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(3)))
}
