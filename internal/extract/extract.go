// Package extract recovers review records from JSON payloads inlined in page
// markup: typed JSON scripts, review arrays embedded in larger scripts and
// state objects assigned to window by inline JavaScript.
package extract

import (
	"encoding/json"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/law-makers/reviews/internal/source"
	"github.com/law-makers/reviews/pkg/models"
	"github.com/rs/zerolog/log"
)

// Status tells whether an extraction attempt produced records
type Status int

const (
	StatusEmpty Status = iota
	StatusFound
)

func (s Status) String() string {
	if s == StatusFound {
		return "found"
	}
	return "empty"
}

// Mapper turns one JSON object into a review. source.Adapter implements it.
type Mapper interface {
	ParseJSONReview(obj map[string]any) (models.Review, bool)
}

// Result is the best-effort outcome for one document
type Result struct {
	Status   Status
	Reviews  []models.Review
	Payloads int // payloads decoded or evaluated successfully
	Failures int // payloads that could not be decoded or evaluated
}

// Options tunes Extract
type Options struct {
	// ScriptBudget bounds the evaluation of each inline state script
	ScriptBudget time.Duration
	// DisableScripts skips JavaScript evaluation
	DisableScripts bool
}

const (
	DefaultScriptBudget = 250 * time.Millisecond
	maxDepth            = 32
)

var (
	reviewKeys = map[string]bool{
		"reviews": true, "review": true, "reviewList": true, "items": true, "data": true,
	}
	arrayKey    = regexp.MustCompile(`"(?:reviews|reviewList|items|data)"\s*:\s*\[`)
	stateAssign = regexp.MustCompile(`(?:window\.|self\.)?__[A-Za-z0-9_]+__\s*=|window\.[A-Za-z_$][\w$]*\s*=`)
)

// Extract runs every pass over the inline scripts of doc
func Extract(doc *goquery.Document, pageURL string, m Mapper, opts Options) Result {
	if opts.ScriptBudget <= 0 {
		opts.ScriptBudget = DefaultScriptBudget
	}

	c := &collector{mapper: m, seen: make(map[string]bool)}
	var stateScripts []string

	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return
		}

		typ, _ := s.Attr("type")
		typ = strings.ToLower(strings.TrimSpace(typ))
		if typ == "application/json" || typ == "application/ld+json" {
			var v any
			err := json.Unmarshal([]byte(body), &v)
			if err == nil {
				c.result.Payloads++
				c.walk(v, 0)
				return
			}
			c.fail("json script", i, err)
		}

		c.scanArrays(body, i)

		if !opts.DisableScripts && (typ == "" || strings.Contains(typ, "javascript")) && stateAssign.MatchString(body) {
			stateScripts = append(stateScripts, body)
		}
	})

	if len(stateScripts) > 0 {
		c.evaluate(stateScripts, pageURL, opts.ScriptBudget)
	}

	if len(c.result.Reviews) > 0 {
		c.result.Status = StatusFound
	}
	log.Debug().
		Str("url", pageURL).
		Str("status", c.result.Status.String()).
		Int("reviews", len(c.result.Reviews)).
		Int("payloads", c.result.Payloads).
		Int("failures", c.result.Failures).
		Msg("Embedded JSON extraction finished")
	return c.result
}

type collector struct {
	mapper Mapper
	seen   map[string]bool
	result Result
}

func (c *collector) fail(kind string, script int, err error) {
	c.result.Failures++
	log.Debug().Err(err).Str("kind", kind).Int("script", script).Msg("Skipping embedded payload")
}

// scanArrays decodes each review-keyed array found in body
func (c *collector) scanArrays(body string, script int) {
	for _, loc := range arrayKey.FindAllStringIndex(body, -1) {
		start := loc[1] - 1 // the opening bracket
		var arr []any
		if err := json.NewDecoder(strings.NewReader(body[start:])).Decode(&arr); err != nil {
			c.fail("array scan", script, err)
			continue
		}
		c.result.Payloads++
		c.walkArray(arr, 0)
	}
}

// evaluate runs state scripts in a sandbox shaped like a browser window and
// walks the globals they defined.
func (c *collector) evaluate(scripts []string, pageURL string, budget time.Duration) {
	vm := goja.New()
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	location := map[string]any{"href": pageURL}
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("location", location)
	vm.Set("document", map[string]any{"location": location})
	vm.Set("console", map[string]any{"log": noop, "warn": noop, "error": noop})

	for i, script := range scripts {
		if err := runBudgeted(vm, script, budget); err != nil {
			c.fail("state script", i, err)
			continue
		}
		c.result.Payloads++
	}

	for _, key := range vm.GlobalObject().Keys() {
		if standardGlobals[key] {
			continue
		}
		val := vm.Get(key)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			continue
		}
		if _, isFunc := goja.AssertFunction(val); isFunc {
			continue
		}
		c.walk(val.Export(), 0)
	}
}

// runBudgeted runs script, interrupting it once budget is spent. A timer
// firing as the script returns must not leave the interrupt armed for the
// next script, so the callback checks done under the same lock.
func runBudgeted(vm *goja.Runtime, script string, budget time.Duration) error {
	var (
		mu   sync.Mutex
		done bool
	)
	timer := time.AfterFunc(budget, func() {
		mu.Lock()
		defer mu.Unlock()
		if !done {
			vm.Interrupt("script budget exceeded")
		}
	})
	_, err := vm.RunString(script)

	mu.Lock()
	done = true
	mu.Unlock()
	timer.Stop()
	vm.ClearInterrupt()
	return err
}

func (c *collector) walk(v any, depth int) {
	if depth > maxDepth {
		return
	}
	switch t := v.(type) {
	case map[string]any:
		if source.IsReviewType(t) {
			c.add(t)
			return
		}
		for _, key := range slices.Sorted(maps.Keys(t)) {
			child := t[key]
			if arr, ok := child.([]any); ok && reviewKeys[key] {
				c.walkArray(arr, depth+1)
				continue
			}
			c.walk(child, depth+1)
		}
	case []any:
		for _, child := range t {
			c.walk(child, depth+1)
		}
	case []map[string]any:
		for _, child := range t {
			c.walk(child, depth+1)
		}
	}
}

// walkArray maps every object of a review-keyed array, descending into the
// ones that are not reviews themselves.
func (c *collector) walkArray(arr []any, depth int) {
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			c.walk(item, depth+1)
			continue
		}
		if !c.add(obj) {
			c.walk(obj, depth+1)
		}
	}
}

func (c *collector) add(obj map[string]any) bool {
	review, ok := c.mapper.ParseJSONReview(obj)
	if !ok {
		return false
	}
	key := strings.Join([]string{review.Title, review.ReviewText, review.ReviewDate, review.Reviewer}, "\x00")
	if !c.seen[key] {
		c.seen[key] = true
		c.result.Reviews = append(c.result.Reviews, review)
	}
	return true
}

var standardGlobals = map[string]bool{
	"window": true, "self": true, "document": true, "location": true, "console": true,
	"Object": true, "Array": true, "String": true, "Number": true, "Boolean": true,
	"Date": true, "Math": true, "JSON": true, "RegExp": true, "Error": true,
	"Function": true, "parseInt": true, "parseFloat": true, "isNaN": true,
	"isFinite": true, "encodeURI": true, "decodeURI": true, "encodeURIComponent": true,
	"decodeURIComponent": true, "escape": true, "unescape": true, "undefined": true,
	"NaN": true, "Infinity": true, "Symbol": true, "Map": true, "Set": true,
	"WeakMap": true, "WeakSet": true, "Promise": true, "Proxy": true, "Reflect": true,
	"globalThis": true,
}
