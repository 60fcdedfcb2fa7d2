package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/time/rate"

	"github.com/umputun/newsdigest/pkg/config"
	"github.com/umputun/newsdigest/pkg/domain"
	"github.com/umputun/newsdigest/pkg/metrics"
)

// KeywordTier is the name of the final, always-available tier
const KeywordTier = "keywords"

// errStopRetry marks errors repeater must not retry
var errStopRetry = errors.New("stop retry")

// KeywordMatcher is the keyword set used by the final tier
type KeywordMatcher interface {
	Match(text string) bool
}

// Tier is one provider stage of the chain with its own retry policy, call timeout and rate limit.
// The limiter lives as long as the tier, so the minimum interval holds across runs.
type Tier struct {
	Name     string
	Provider Provider
	Timeout  time.Duration
	Retry    config.RetryConfig
	limiter  *rate.Limiter
}

// NewTier makes a tier for provider p with settings from cfg
func NewTier(name string, p Provider, cfg config.ProviderConfig) *Tier {
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &Tier{
		Name:     name,
		Provider: p,
		Timeout:  cfg.Timeout,
		Retry:    cfg.Retry,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// tierOutcome is the result of one tier, either a verdict or the error that made the tier fail
type tierOutcome struct {
	verdict domain.Verdict
	err     error
}

// Decision is the chain result, Tier names the stage that produced the verdict
type Decision struct {
	Verdict domain.Verdict
	Tier    string
}

// ChainConfig defines chain parameters
type ChainConfig struct {
	Tiers    []*Tier        // provider tiers in priority order
	Keywords KeywordMatcher // final tier, nil matches nothing
	Prompt   string         // task prompt used when Classify gets an empty one
	Metrics  *metrics.Metrics
}

// Chain classifies entries by trying provider tiers in order and falling back to keyword match
type Chain struct {
	tiers    []*Tier
	keywords KeywordMatcher
	prompt   string
	metrics  *metrics.Metrics
}

// NewChain makes a classifier chain
func NewChain(cfg ChainConfig) *Chain {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = config.DefaultPrompt
	}
	return &Chain{tiers: cfg.Tiers, keywords: cfg.Keywords, prompt: prompt, metrics: cfg.Metrics}
}

// Classify returns the verdict for the entry. It never fails: a failed tier falls through to the next one
// and the keyword tier always answers. With canceled ctx provider tiers are skipped.
func (c *Chain) Classify(ctx context.Context, entry domain.Entry, prompt string) Decision {
	if prompt == "" {
		prompt = c.prompt
	}
	contextText := BuildContext(entry)

	for _, t := range c.tiers {
		if ctx.Err() != nil {
			break
		}
		out := t.run(ctx, contextText, prompt, c.metrics)
		if out.err == nil {
			c.metrics.ObserveClassification(t.Name, out.verdict.String())
			return Decision{Verdict: out.verdict, Tier: t.Name}
		}
		log.Printf("[WARN] tier %s failed for %s, falling back: %v", t.Name, entry.ID, out.err)
	}

	out := keywordTier(c.keywords, entry)
	c.metrics.ObserveClassification(KeywordTier, out.verdict.String())
	return Decision{Verdict: out.verdict, Tier: KeywordTier}
}

// run queries the tier provider, retrying retriable failures with exponential backoff
func (t *Tier) run(ctx context.Context, contextText, prompt string, m *metrics.Metrics) tierOutcome {
	attempts := max(t.Retry.MaxAttempts, 1)
	baseDelay := t.Retry.BaseDelay
	if baseDelay <= 0 {
		baseDelay = time.Millisecond
	}
	maxDelay := max(t.Retry.MaxDelay, baseDelay)

	var answer string
	attempt := 0
	err := repeater.NewBackoff(attempts, baseDelay, repeater.WithMaxDelay(maxDelay)).Do(ctx, func() error {
		attempt++
		if err := t.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit wait: %w", errStopRetry, err)
		}

		callCtx := ctx
		if t.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, t.Timeout)
			defer cancel()
		}

		resp, err := t.Provider.Query(callCtx, contextText, prompt)
		if err != nil {
			pe := asProviderError(t.Provider.Name(), err)
			m.ProviderError(t.Name, pe.Kind.String())
			if !pe.Retriable() || ctx.Err() != nil {
				return fmt.Errorf("%w: %w", errStopRetry, pe)
			}
			log.Printf("[DEBUG] tier %s attempt %d/%d failed: %v", t.Name, attempt, attempts, pe)
			return pe
		}
		answer = resp
		return nil
	}, errStopRetry)
	if err != nil {
		return tierOutcome{err: err}
	}
	return tierOutcome{verdict: ParseVerdict(answer)}
}

// keywordTier matches the keyword set over title and summary, it can't fail
func keywordTier(k KeywordMatcher, e domain.Entry) tierOutcome {
	if k != nil && k.Match(e.Title+"\n"+e.Summary) {
		return tierOutcome{verdict: domain.VerdictRelevant}
	}
	return tierOutcome{verdict: domain.VerdictIrrelevant}
}

// asProviderError keeps a *ProviderError as is and classifies anything else by its transport error
func asProviderError(provider string, err error) *ProviderError {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	kind, _ := kindFromError(err)
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
