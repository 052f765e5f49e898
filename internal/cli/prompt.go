package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grocerycompare/backend/internal/domain"
)

// CompareRequest is the JSON body sent to POST /api/v1/compare
type CompareRequest struct {
	Items              []domain.RequestedItem `json:"items"`
	AllowSubstitutions bool                   `json:"allow_substitutions"`
	IncludeTags        []string               `json:"include_tags"`
	ExcludeBrands      []string               `json:"exclude_brands"`
}

// ParseItemLine parses a "<quantity> <item>" line such as "2 milk"
func ParseItemLine(line string) (domain.RequestedItem, error) {
	qtyText, name, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok {
		return domain.RequestedItem{}, fmt.Errorf("%w: expected '<quantity> <item>'", domain.ErrInvalidInput)
	}

	quantity, err := strconv.ParseFloat(qtyText, 64)
	if err != nil {
		return domain.RequestedItem{}, fmt.Errorf("%w: quantity %q is not a number", domain.ErrInvalidInput, qtyText)
	}

	return domain.NewRequestedItem(name, quantity)
}

// Prompter asks for a shopping list interactively
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// ReadShoppingList collects items until "done" (or end of input), then asks
// about substitutions, include tags and exclude brands.
func (p *Prompter) ReadShoppingList() (CompareRequest, error) {
	fmt.Fprintln(p.out, "Enter your shopping list items one by one. Format: '<quantity> <item>'. Type 'done' to finish:")

	var req CompareRequest
	for {
		entry, ok := p.ask("Item: ")
		if !ok || strings.EqualFold(entry, "done") {
			break
		}
		if entry == "" {
			continue
		}

		item, err := ParseItemLine(entry)
		if err != nil {
			fmt.Fprintln(p.out, "Invalid format. Use '<quantity> <item>', e.g., '2 milk'")
			continue
		}
		req.Items = append(req.Items, item)
	}

	if err := p.in.Err(); err != nil {
		return CompareRequest{}, fmt.Errorf("failed to read input: %w", err)
	}

	subs, _ := p.ask("Allow substitutions? (yes/no): ")
	switch strings.ToLower(subs) {
	case "yes", "y":
		req.AllowSubstitutions = true
	}

	tags, _ := p.ask("Include tags (e.g., 'vegan gluten-free', leave blank if none): ")
	req.IncludeTags = strings.Fields(tags)
	if req.IncludeTags == nil {
		req.IncludeTags = []string{}
	}

	brands, _ := p.ask("Exclude brands (e.g., 'Nestle Heinz', leave blank if none): ")
	req.ExcludeBrands = strings.Fields(brands)
	if req.ExcludeBrands == nil {
		req.ExcludeBrands = []string{}
	}

	return req, nil
}

// ask prints a prompt and returns the trimmed next line; ok is false at end of input
func (p *Prompter) ask(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}
