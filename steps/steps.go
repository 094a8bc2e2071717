// Package steps discovers sharded per-timestep sample files and selects the
// trailing window of timesteps to average over.
package steps

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultWindow is the number of trailing steps kept when no window is given.
const DefaultWindow = 20

var digits = regexp.MustCompile(`\d+`)

// ParseError is returned for a file name that carries no step index.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("steps: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("steps: %s: no step index in file name", e.Path)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Index returns the step index of a shard: the last run of decimal digits in
// the base name, so "output.3.1200.csv" is step 1200.
func Index(name string) (int, error) {
	base := filepath.Base(name)
	runs := digits.FindAllString(base, -1)
	if len(runs) == 0 {
		return 0, &ParseError{Path: name}
	}
	step, err := strconv.Atoi(runs[len(runs)-1])
	if err != nil {
		return 0, &ParseError{Path: name, Err: err}
	}
	return step, nil
}

// Source locates the shards of a sampling run: every file in Dir whose name
// matches Prefix*Suffix.
type Source struct {
	Dir    string
	Prefix string
	Suffix string
}

// Pattern returns the glob pattern equivalent to the source, for logs.
func (s Source) Pattern() string {
	return filepath.Join(s.Dir, s.Prefix+"*"+s.Suffix)
}

// Catalog groups shard paths by step index.
type Catalog struct {
	steps  []int
	shards map[int][]string
}

// Discover lists the regular files of Dir whose names start with Prefix and
// end with Suffix, in name order. Names are matched literally, so Dir and
// the affixes may hold glob characters. A missing directory yields an empty
// catalog.
func (s Source) Discover() (*Catalog, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &Catalog{shards: map[int][]string{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !s.matches(name) {
			continue
		}
		paths = append(paths, filepath.Join(s.Dir, name))
	}
	sort.Strings(paths)
	return NewCatalog(paths)
}

func (s Source) matches(name string) bool {
	return len(name) >= len(s.Prefix)+len(s.Suffix) &&
		strings.HasPrefix(name, s.Prefix) &&
		strings.HasSuffix(name, s.Suffix)
}

// NewCatalog groups the paths by step index. Paths keep their relative order
// within a step.
func NewCatalog(paths []string) (*Catalog, error) {
	c := &Catalog{shards: make(map[int][]string)}
	for _, path := range paths {
		step, err := Index(path)
		if err != nil {
			return nil, err
		}
		if _, ok := c.shards[step]; !ok {
			c.steps = append(c.steps, step)
		}
		c.shards[step] = append(c.shards[step], path)
	}
	sort.Ints(c.steps)
	return c, nil
}

// Steps returns the distinct step indices in ascending order.
func (c *Catalog) Steps() []int {
	return append([]int(nil), c.steps...)
}

// Shards returns the shard paths of a step in discovery order.
func (c *Catalog) Shards(step int) []string {
	return append([]string(nil), c.shards[step]...)
}

// Len returns the number of distinct steps.
func (c *Catalog) Len() int { return len(c.steps) }

// Trailing returns the last n distinct steps in ascending order. A
// non-positive n selects DefaultWindow steps.
func Trailing(steps []int, n int) []int {
	if n <= 0 {
		n = DefaultWindow
	}
	uniq := append([]int(nil), steps...)
	sort.Ints(uniq)
	k := 0
	for i, s := range uniq {
		if i > 0 && s == uniq[k-1] {
			continue
		}
		uniq[k] = s
		k++
	}
	uniq = uniq[:k]
	if len(uniq) > n {
		uniq = uniq[len(uniq)-n:]
	}
	return uniq
}

// Select discovers the shards of src and returns the catalog together with
// the trailing window of n steps.
func Select(src Source, n int) (*Catalog, []int, error) {
	c, err := src.Discover()
	if err != nil {
		return nil, nil, err
	}
	return c, Trailing(c.Steps(), n), nil
}
