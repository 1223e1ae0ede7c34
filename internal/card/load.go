package card

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// maxCardSize bounds a fetched card definition.
const maxCardSize = 8 << 20

var (
	// ErrDuplicateWeek is returned when two cards of a catalog share a week.
	ErrDuplicateWeek = errors.New("duplicate card week")

	// ErrUnknownPrereq is returned when a card's prereq names a week that is
	// not in the catalog.
	ErrUnknownPrereq = errors.New("unknown prereq week")

	// ErrNotFound is returned when a catalog has no card for a week.
	ErrNotFound = errors.New("card not found")

	// ErrTooLarge is returned when a card definition exceeds maxCardSize.
	ErrTooLarge = errors.New("card definition too large")
)

// Load reads and parses a card from a file path or an http(s) URL. A failed
// fetch is returned as is; callers decide whether to abort.
func Load(ctx context.Context, src string) (*Card, error) {
	data, err := read(ctx, src)
	if err != nil {
		return nil, err
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", src, err)
	}
	return c, nil
}

func read(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("read card: %w", err)
		}
		defer f.Close()
		return readLimited(f, src, "read card")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch card: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch card: %s returned %s", src, resp.Status)
	}
	return readLimited(resp.Body, src, "fetch card")
}

// readLimited reads at most maxCardSize bytes and fails rather than
// truncating a larger definition.
func readLimited(r io.Reader, src, op string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxCardSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) > maxCardSize {
		return nil, fmt.Errorf("%s: %w: %s is larger than %d bytes", op, ErrTooLarge, src, maxCardSize)
	}
	return data, nil
}

// Catalog is a set of cards keyed by week.
type Catalog struct {
	cards  map[int]*Card
	source map[int]string
}

// NewCatalog indexes cards and checks week uniqueness and prereq references.
func NewCatalog(cards ...*Card) (*Catalog, error) {
	cat := &Catalog{cards: make(map[int]*Card), source: make(map[int]string)}
	for _, c := range cards {
		if err := cat.add(c, ""); err != nil {
			return nil, err
		}
	}
	if err := cat.checkPrereqs(); err != nil {
		return nil, err
	}
	return cat, nil
}

// LoadDir loads every *.json card in dir.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	slices.Sort(paths)

	cat := &Catalog{cards: make(map[int]*Card), source: make(map[int]string)}
	for _, p := range paths {
		c, err := Load(ctx, p)
		if err != nil {
			return nil, err
		}
		if err := cat.add(c, p); err != nil {
			return nil, err
		}
	}
	if err := cat.checkPrereqs(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (cat *Catalog) add(c *Card, src string) error {
	if prev, ok := cat.cards[c.Week]; ok {
		return fmt.Errorf("%w: week %d (%q and %q)", ErrDuplicateWeek, c.Week, prev.Title, c.Title)
	}
	cat.cards[c.Week] = c
	cat.source[c.Week] = src
	return nil
}

func (cat *Catalog) checkPrereqs() error {
	for _, week := range cat.Weeks() {
		c := cat.cards[week]
		if c.Prereq == nil {
			continue
		}
		if _, ok := cat.cards[*c.Prereq]; !ok {
			return fmt.Errorf("%w: week %d requires week %d", ErrUnknownPrereq, week, *c.Prereq)
		}
	}
	return nil
}

// Weeks returns the catalog's weeks in ascending order.
func (cat *Catalog) Weeks() []int {
	weeks := make([]int, 0, len(cat.cards))
	for w := range cat.cards {
		weeks = append(weeks, w)
	}
	slices.Sort(weeks)
	return weeks
}

// Cards returns the cards ordered by week.
func (cat *Catalog) Cards() []*Card {
	out := make([]*Card, 0, len(cat.cards))
	for _, w := range cat.Weeks() {
		out = append(out, cat.cards[w])
	}
	return out
}

// Get returns the card for week.
func (cat *Catalog) Get(week int) (*Card, error) {
	c, ok := cat.cards[week]
	if !ok {
		return nil, fmt.Errorf("%w: week %d", ErrNotFound, week)
	}
	return c, nil
}

// Source returns the file a card was loaded from, if any.
func (cat *Catalog) Source(week int) string { return cat.source[week] }

// Unlocked reports whether week can be started: it has no prereq or the
// prereq is done.
func (cat *Catalog) Unlocked(week int, isDone func(week int) bool) bool {
	c, ok := cat.cards[week]
	if !ok {
		return false
	}
	return c.Prereq == nil || isDone(*c.Prereq)
}
