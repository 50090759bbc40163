package search

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/coursedesk/course-survey-mcp/internal/models"
	"github.com/coursedesk/course-survey-mcp/internal/store"
	"github.com/rs/zerolog"
)

// ErrEmptyTerm is returned before any store call when the search term is
// empty or whitespace-only.
var ErrEmptyTerm = errors.New("search term is empty")

const snippetLen = 120

type Strategy string

const (
	// StrategyPredicate pushes per-token containment conditions to the
	// store and ranks the bounded candidate set it returns.
	StrategyPredicate Strategy = "predicate"
	// StrategyScan reads up to MaxScan documents and scores every one
	// with a similarity ratio. No index assistance needed.
	StrategyScan Strategy = "scan"
)

type Config struct {
	Strategy        Strategy
	TokenWeight     float64 // weight of token coverage in the score
	LengthWeight    float64 // weight of the query/value length ratio
	DefaultTopK     int
	LookaheadFactor int // predicate strategy fetches TopK * this
	MaxScan         int // scan strategy read cap
	MinScore        float64
}

// Defaults returns the production tuning.
func Defaults() Config {
	return Config{
		Strategy:        StrategyPredicate,
		TokenWeight:     0.7,
		LengthWeight:    0.3,
		DefaultTopK:     5,
		LookaheadFactor: 3,
		MaxScan:         200,
		MinScore:        0.4,
	}
}

type Options struct {
	TopK int // <= 0 falls back to Config.DefaultTopK
}

// Result is the shaped output of one search call.
type Result struct {
	Query      string                `json:"query"`
	Field      string                `json:"field"`
	Tokens     []string              `json:"tokens,omitempty"`
	StoreQuery string                `json:"storeQuery,omitempty"`
	Matched    int                   `json:"matched"`
	TopK       int                   `json:"topK"`
	MaxScan    int                   `json:"maxScan,omitempty"`
	MinScore   float64               `json:"minScore,omitempty"`
	Results    []models.SearchResult `json:"results"`
}

// Engine ranks course documents by a single searchable field. It only
// reads; it owns no state beyond its configuration.
type Engine struct {
	store      store.Store
	collection string
	cfg        Config
	logger     *zerolog.Logger
}

func NewEngine(st store.Store, collection string, cfg Config, logger *zerolog.Logger) *Engine {
	return &Engine{
		store:      st,
		collection: collection,
		cfg:        cfg,
		logger:     logger,
	}
}

// Search tokenizes the term, fetches candidates, scores, ranks and
// truncates to topK. Identical inputs against an unchanged store yield
// identical ordered results.
func (e *Engine) Search(ctx context.Context, field, term string, opts Options) (*Result, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyTerm
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = e.cfg.DefaultTopK
	}

	if e.cfg.Strategy == StrategyScan {
		return e.searchScan(ctx, field, term, topK)
	}
	return e.searchPredicate(ctx, field, term, topK)
}

func (e *Engine) searchPredicate(ctx context.Context, field, term string, topK int) (*Result, error) {
	tokens := Tokenize(term)

	conds := make([]store.Condition, 0, len(tokens))
	for _, tok := range tokens {
		conds = append(conds, store.Condition{Field: field, Op: store.OpContains, Value: tok})
	}
	// Fetch a little more than topK so ranking has headroom.
	q := store.Query{Conditions: conds, Limit: topK * e.cfg.LookaheadFactor}

	docs, err := e.store.Query(ctx, e.collection, q)
	if err != nil {
		e.logger.Warn().Err(err).Str("field", field).Str("term", term).Msg("Store query failed")
		return nil, err
	}

	termLen := utf8.RuneCountInString(term)
	scored := make([]models.SearchResult, 0, len(docs))
	for _, d := range docs {
		val := d.Str(field)
		if val == "" {
			continue
		}
		lv := strings.ToLower(val)

		// The store already filtered on containment; re-verify anyway so
		// ranking never trusts a stale index.
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(lv, tok) {
				hits++
			}
		}
		if hits < len(tokens) {
			continue
		}

		coverage := float64(hits) / float64(max(len(tokens), 1))
		lengthBonus := math.Min(float64(termLen)/float64(max(utf8.RuneCountInString(val), 1)), 1.0)
		score := round4(coverage*e.cfg.TokenWeight + lengthBonus*e.cfg.LengthWeight)

		scored = append(scored, models.SearchResult{
			ID:         d.ID(),
			Score:      score,
			FieldValue: val,
			Snippet:    snippet(val),
			Doc:        d,
		})
	}

	trimmed := rank(scored, topK)
	return &Result{
		Query:      term,
		Field:      field,
		Tokens:     tokens,
		StoreQuery: q.String(),
		Matched:    len(trimmed),
		TopK:       topK,
		Results:    trimmed,
	}, nil
}

func (e *Engine) searchScan(ctx context.Context, field, term string, topK int) (*Result, error) {
	docs, err := e.store.ListAll(ctx, e.collection, e.cfg.MaxScan)
	if err != nil {
		e.logger.Warn().Err(err).Str("field", field).Str("term", term).Msg("Store scan failed")
		return nil, err
	}

	termNorm := strings.ToLower(term)
	scored := make([]models.SearchResult, 0, len(docs))
	for _, d := range docs {
		val := d.Str(field)
		if val == "" {
			continue
		}
		s := Similarity(termNorm, strings.ToLower(val))
		if s < e.cfg.MinScore {
			continue
		}
		scored = append(scored, models.SearchResult{
			ID:         d.ID(),
			Score:      round4(s),
			FieldValue: val,
			Snippet:    snippet(val),
			Doc:        d,
		})
	}

	trimmed := rank(scored, topK)
	return &Result{
		Query:    term,
		Field:    field,
		Matched:  len(trimmed),
		TopK:     topK,
		MaxScan:  e.cfg.MaxScan,
		MinScore: e.cfg.MinScore,
		Results:  trimmed,
	}, nil
}

// rank sorts descending by score and truncates. The sort is stable so ties
// keep their original fetch order.
func rank(results []models.SearchResult, topK int) []models.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

func snippet(val string) string {
	runes := []rune(val)
	if len(runes) <= snippetLen {
		return val
	}
	return string(runes[:snippetLen]) + "..."
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
