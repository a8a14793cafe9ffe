package validation

import (
	"context"
	"time"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/pkg/logging"
)

// ResultCache gates cached results on both freshness and a checksum of
// the current request. Implementations live in the cache package.
type ResultCache interface {
	// Get returns the cached result for key when it is fresh and its
	// stored checksum matches the given one
	Get(ctx context.Context, key string, checksum uint64) (*Result, bool)

	// Set stores a result under key with its checksum
	Set(ctx context.Context, key string, checksum uint64, result *Result)
}

// Orchestrator composes the validation stages into quick, business and
// full modes. It has no mutable state of its own and is safe for
// concurrent use.
type Orchestrator struct {
	products domain.ProductRepository
	pallets  domain.PalletRepository
	rules    []BusinessRule
	cache    ResultCache
	logger   *logging.Logger
}

// NewOrchestrator creates a validation orchestrator. cache may be nil
// to disable result caching.
func NewOrchestrator(products domain.ProductRepository, pallets domain.PalletRepository, cache ResultCache, logger *logging.Logger) *Orchestrator {
	return &Orchestrator{
		products: products,
		pallets:  pallets,
		rules:    DefaultBusinessRules(),
		cache:    cache,
		logger:   logger,
	}
}

// CacheKey returns the cache key for a request in a given mode.
// The canonical signature makes the key order-independent.
func CacheKey(request *Request, mode Mode) string {
	return string(mode) + "|" + Signature(request)
}

// Validate runs the pipeline for the requested mode. The numeric checks
// are deterministic for identical inputs; wall-clock time appears only
// in the returned metrics.
func (o *Orchestrator) Validate(ctx context.Context, request *Request, mode Mode) (*Result, error) {
	start := time.Now()

	key := CacheKey(request, mode)
	checksum := Checksum(request)

	if o.cache != nil {
		if cached, ok := o.cache.Get(ctx, key, checksum); ok {
			out := *cached
			out.Metrics.Cached = true
			out.Metrics.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000
			return &out, nil
		}
	}

	pallet, err := o.resolvePallet(ctx, request.PalletID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(request.Products))
	for _, p := range request.Products {
		productIDs = append(productIDs, p.ProductID)
	}
	products, err := o.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	totals, err := CalculateTotals(request, products)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Violations:  make([]Violation, 0),
		Warnings:    make([]Violation, 0),
		Suggestions: make([]Suggestion, 0),
		Totals:      totals,
	}

	outcome := CheckConstraints(totals, pallet, request.Constraints)
	result.Constraints = &outcome.Report
	result.Violations = append(result.Violations, outcome.Violations...)
	result.Warnings = append(result.Warnings, outcome.Warnings...)
	result.Suggestions = append(result.Suggestions, outcome.Suggestions...)

	if mode == ModeBusiness || mode == ModeFull {
		ruleResults, violations, warnings := EvaluateBusinessRules(request, o.rules)
		result.BusinessRules = ruleResults
		result.Violations = append(result.Violations, violations...)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if mode == ModeFull {
		compat, violations := CheckCompatibility(request, products, pallet, &outcome.Report)
		result.Compatibility = &compat
		result.Violations = append(result.Violations, violations...)
	}

	result.IsValid = len(result.Violations) == 0
	result.RealTimeScore = scoreResult(result)
	result.Metrics = Metrics{
		ProcessingTimeMs: float64(time.Since(start).Microseconds()) / 1000,
		Mode:             mode,
		Cached:           false,
		ProductCount:     len(request.Products),
	}

	if o.logger != nil {
		o.logger.WithFields(map[string]interface{}{
			"mode":       string(mode),
			"isValid":    result.IsValid,
			"violations": len(result.Violations),
			"riskLevel":  outcome.Report.RiskLevel,
		}).Debug("Composition validated")
	}

	if o.cache != nil {
		o.cache.Set(ctx, key, checksum, result)
	}

	return result, nil
}

// resolvePallet loads the requested pallet or auto-selects a free one.
// Failure here is a domain error, not a compatibility false, since it
// blocks evaluation entirely.
func (o *Orchestrator) resolvePallet(ctx context.Context, palletID string) (*domain.Pallet, error) {
	if palletID != "" {
		return o.pallets.GetByID(ctx, palletID)
	}

	pallet, err := o.pallets.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrNoAvailablePallet
	}
	return pallet, nil
}

// scoreResult folds the findings into a single live feedback score
func scoreResult(result *Result) float64 {
	score := 1.0
	if result.Constraints != nil {
		score = result.Constraints.Stability.Current
	}
	score -= 0.2 * float64(len(result.Violations))
	score -= 0.05 * float64(len(result.Warnings))
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
