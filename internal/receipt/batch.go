package receipt

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TextPrinter is the interface the printer service exposes for printing
// one text job.
type TextPrinter interface {
	PrintText(text string) error
}

// Batch is a function with the contributions recorded at it, as stored in
// a YAML batch file.
type Batch struct {
	Language      string         `yaml:"language"`
	Function      Function       `yaml:"function"`
	Contributions []Contribution `yaml:"contributions"`
}

// LoadBatch reads and parses a YAML batch file.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing batch file: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks that every contribution names a contributor and an
// amount.
func (b *Batch) Validate() error {
	if len(b.Contributions) == 0 {
		return errors.New("batch has no contributions")
	}
	for i, c := range b.Contributions {
		if c.ContributorName == "" {
			return fmt.Errorf("contributions[%d]: contributor_name must not be empty", i)
		}
		if c.Amount == "" {
			return fmt.Errorf("contributions[%d]: amount must not be empty", i)
		}
	}
	return nil
}

// PrintBatch prints every receipt in order and then the summary. Each job
// completes before the next starts; the first failure stops the batch.
func PrintBatch(p TextPrinter, b *Batch, now time.Time) error {
	lang := ParseLanguage(b.Language)

	for i, c := range b.Contributions {
		if err := p.PrintText(MOIReceipt(b.Function, c, lang)); err != nil {
			return fmt.Errorf("receipt %d (%s): %w", i+1, c.ContributorName, err)
		}
		slog.Info("[RECEIPT] printed", "contributor", c.ContributorName, "amount", c.Amount)
	}

	if err := p.PrintText(Summary(b.Function, b.Contributions, lang, now)); err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	slog.Info("[RECEIPT] summary printed", "contributions", len(b.Contributions))
	return nil
}
