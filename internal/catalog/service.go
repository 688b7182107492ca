// Package catalog wires the card search core together: it builds queries,
// runs them through the graph executor, post-processes the rows and resolves
// render URLs. Both the HTTP API and the terminal client talk to Service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/artwork"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/facets"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/query"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/cards/results"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/graph"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/interaction"
	"github.com/ramonehamilton/hearthstone-card-explorer/internal/metrics"
)

var (
	// ErrCardNotFound is returned when no visible card has the identifier.
	ErrCardNotFound = errors.New("card not found")
	// ErrNoImage is returned when a card has no resolvable render.
	ErrNoImage = errors.New("card has no image")
	// ErrImagesDisabled is returned by Image when no art cache is configured.
	ErrImagesDisabled = errors.New("image cache is disabled")
)

// CardView is a card annotated for display.
type CardView struct {
	*cards.Card
	ImageURL string `json:"imageUrl,omitempty"`
}

// UnmarshalJSON decodes the flattened card fields and the image URL.
func (v *CardView) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	card := &cards.Card{}
	if err := card.UnmarshalJSON(data); err != nil {
		return err
	}
	var extra struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return fmt.Errorf("decode card view: %w", err)
	}

	v.Card = card
	v.ImageURL = extra.ImageURL
	return nil
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	Cards []CardView `json:"cards"`
	// Excluded counts rows removed by the exclusion rules.
	Excluded int `json:"excluded"`
	// Ignored lists criteria fields dropped because their value was unusable.
	Ignored []string `json:"ignored,omitempty"`
}

// Service answers catalog requests.
type Service struct {
	exec      graph.Executor
	builder   *query.Builder
	processor *results.Processor
	facets    facets.Source
	resolver  *artwork.Resolver
	images    *artwork.Cache
	recorder  metrics.Recorder
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBuilder replaces the default query builder.
func WithBuilder(b *query.Builder) Option {
	return func(s *Service) { s.builder = b }
}

// WithExclusionRules replaces the default exclusion rules.
func WithExclusionRules(rules results.ExclusionRules) Option {
	return func(s *Service) { s.processor = results.NewProcessor(rules) }
}

// WithFacetSource replaces the uncached facet aggregator, typically with a
// facets.Cache.
func WithFacetSource(src facets.Source) Option {
	return func(s *Service) { s.facets = src }
}

// WithResolver sets the render URL resolver.
func WithResolver(r *artwork.Resolver) Option {
	return func(s *Service) { s.resolver = r }
}

// WithImageCache enables Image.
func WithImageCache(c *artwork.Cache) Option {
	return func(s *Service) { s.images = c }
}

// WithRecorder reports exclusion counts.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service on top of exec.
func NewService(exec graph.Executor, opts ...Option) *Service {
	s := &Service{
		exec:      exec,
		builder:   query.NewBuilder(),
		processor: results.NewProcessor(results.DefaultExclusionRules()),
		resolver:  artwork.NewResolver(artwork.DefaultOptions()),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.facets == nil {
		s.facets = facets.NewAggregator(exec)
	}
	return s
}

// Search runs one filtered search. Executor failures are returned as
// *graph.ExecutorError; no matches is an empty result without error.
func (s *Service) Search(ctx context.Context, c query.Criteria) (*SearchResult, error) {
	q := s.builder.Build(c)
	if len(q.Ignored) > 0 {
		s.logger.Debug("Ignoring unusable search criteria",
			zap.Strings("fields", q.Ignored),
			zap.String("cost", c.Cost))
	}

	rows, err := s.exec.Execute(graph.WithOperation(ctx, metrics.OpSearch), q.Text, q.Params)
	if err != nil {
		return nil, graph.Wrap(metrics.OpSearch, err)
	}

	found := s.process(rows)
	out := &SearchResult{
		Cards:    make([]CardView, 0, len(found.cards)),
		Excluded: found.report.Excluded,
		Ignored:  q.Ignored,
	}
	for _, card := range found.cards {
		out.Cards = append(out.Cards, s.view(card))
	}
	return out, nil
}

// Facets returns the distinct filter values.
func (s *Service) Facets(ctx context.Context) (*facets.FacetSet, error) {
	fs, err := s.facets.Aggregate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate facets: %w", err)
	}
	return fs, nil
}

// Card looks up one card by id, cardId or dbfId. Excluded cards are reported
// as not found.
func (s *Service) Card(ctx context.Context, id string) (*CardView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrCardNotFound
	}

	q := query.ByIdentifier(id)
	rows, err := s.exec.Execute(graph.WithOperation(ctx, metrics.OpCard), q.Text, q.Params)
	if err != nil {
		return nil, graph.Wrap(metrics.OpCard, err)
	}

	found := s.process(rows)
	if len(found.cards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	view := s.view(found.cards[0])
	return &view, nil
}

// Compare analyzes a against b.
func (s *Service) Compare(a, b *cards.Card) (*interaction.Result, error) {
	return interaction.Analyze(a, b)
}

// CompareByID loads both cards concurrently and compares them.
func (s *Service) CompareByID(ctx context.Context, idA, idB string) (*interaction.Result, error) {
	var a, b *CardView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = s.Card(gctx, idA)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = s.Card(gctx, idB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.Compare(a.Card, b.Card)
}

// ImageURL returns the render URL of card.
func (s *Service) ImageURL(card *cards.Card) (string, bool) {
	return s.resolver.URL(card)
}

// Image returns the local path of the cached render for the card with id.
func (s *Service) Image(ctx context.Context, id string) (string, error) {
	if s.images == nil {
		return "", ErrImagesDisabled
	}
	card, err := s.Card(ctx, id)
	if err != nil {
		return "", err
	}
	if card.ImageURL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoImage, id)
	}
	return s.images.Get(ctx, card.ImageURL)
}

type processed struct {
	cards  []*cards.Card
	report results.Report
}

func (s *Service) process(rows []graph.Row) processed {
	out, report := s.processor.Process(rows)
	if report.Malformed > 0 {
		s.logger.Warn("Dropped malformed result rows", zap.Int("count", report.Malformed))
	}
	if s.recorder != nil {
		s.recorder.AddExcluded(report.Excluded)
	}
	return processed{cards: out, report: report}
}

func (s *Service) view(card *cards.Card) CardView {
	v := CardView{Card: card}
	if url, ok := s.resolver.URL(card); ok {
		v.ImageURL = url
	}
	return v
}
